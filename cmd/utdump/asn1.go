package main

import (
	"fmt"
	"strings"

	"github.com/saferwall/ut/asn1"
	"github.com/saferwall/ut/uttypes"
	"github.com/spf13/cobra"

	"github.com/saferwall/ut"
)

func asn1Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asn1 <file>",
		Short: "Dump the BER tag tree of a DER/BER-encoded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ut.NewFile(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			d := asn1.New(uttypes.NewConstantUint8Array(f.Bytes()))
			dumpTLV(d, 0)
			if err := d.GetError(); err != nil {
				return err
			}
			return nil
		},
	}
}

// dumpTLV prints one TLV per line, indenting children under a
// constructed parent, the same generic constructed-vs-primitive
// traversal asn1.Fuzz uses to walk untrusted input.
func dumpTLV(d *asn1.Decoder, depth int) {
	indent := strings.Repeat("  ", depth)
	class, number, constructed := d.TagClass(), d.IdentifierNumber(), d.IsConstructed()
	if constructed {
		fmt.Printf("%sSEQUENCE/SET class=%d tag=%d\n", indent, class, number)
		children := d.DecodeSequence()
		if d.GetError() != nil {
			return
		}
		for _, c := range children {
			dumpTLV(c, depth+1)
		}
		return
	}
	content := d.DecodeOctetString()
	if d.GetError() != nil {
		return
	}
	fmt.Printf("%sPRIMITIVE class=%d tag=%d len=%d\n", indent, class, number, content.Len())
}
