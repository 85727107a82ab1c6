package main

import (
	"fmt"

	"github.com/saferwall/ut/object"
	"github.com/spf13/cobra"

	"github.com/saferwall/ut"
)

// decodedBlob wraps a memory-mapped codec input as an Object, the CLI's
// concrete stand-in for "the thing a decoder hands back" participating
// in the reference-counted capability model (C1) rather than being a
// bare []byte: Ref/Unref govern its lifetime, and String is dispatched
// through the capability table rather than a Go Stringer, the way the
// rest of this module looks capabilities up by CapabilityID instead of
// a type switch.
type decodedBlob struct {
	object.Base
	path string
	data []byte
}

var blobStringCapability = object.NewCapabilityID()

var blobType = &object.TypeDescriptor{
	Name: "decodedBlob",
	Capabilities: map[object.CapabilityID]any{
		blobStringCapability: func(obj object.Object) string {
			b := obj.(*decodedBlob)
			return fmt.Sprintf("%s: %d bytes", b.path, len(b.data))
		},
	},
}

func newDecodedBlob(path string, data []byte) *decodedBlob {
	b := &decodedBlob{path: path, data: data}
	b.Init(b, blobType)
	return b
}

func objectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "object <file>",
		Short: "Wrap a file's bytes in a reference-counted Object and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ut.NewFile(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			blob := newDecodedBlob(args[0], f.Bytes())
			ref := blob.Ref()
			defer ref.Unref()

			stringer := object.MustGetInterface(ref, blobStringCapability).(func(object.Object) string)
			fmt.Println(stringer(ref))
			fmt.Printf("refcount=%d\n", ref.RefCount())
			return nil
		},
	}
}
