package main

import (
	"fmt"

	"github.com/saferwall/ut/eventloop"
	"github.com/saferwall/ut/gzipdecoder"
	"github.com/saferwall/ut/streams"
	"github.com/spf13/cobra"

	"github.com/saferwall/ut"
)

func gzipCmd() *cobra.Command {
	var zlib bool
	cmd := &cobra.Command{
		Use:   "gzip <file>",
		Short: "Decompress a gzip or zlib member and print its size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ut.NewFile(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var dec streams.InputStream
			if zlib {
				dec = gzipdecoder.NewZlib(f.InputStream())
			} else {
				dec = gzipdecoder.New(f.InputStream())
			}

			loop := eventloop.New()
			data, err := streams.ReadSync(loop, dec)
			if err != nil {
				return err
			}
			fmt.Printf("decoded %d bytes\n", len(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&zlib, "zlib", false, "decode a zlib stream instead of gzip")
	return cmd
}
