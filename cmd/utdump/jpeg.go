package main

import (
	"fmt"

	"github.com/saferwall/ut/jpegdecoder"
	"github.com/saferwall/ut/object"
	"github.com/spf13/cobra"

	"github.com/saferwall/ut"
)

func jpegCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jpeg <file>",
		Short: "Decode a baseline JPEG file and print its dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ut.NewFile(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var decodeErr error
			jpegdecoder.New(f.InputStream()).Decode(func(img *jpegdecoder.Image, decErr *object.Error) {
				if decErr != nil {
					decodeErr = decErr
					return
				}
				fmt.Printf("%dx%d, %d components, comment=%q\n",
					img.Width, img.Height, img.NumComponents, img.Comment)
			}, nil)
			return decodeErr
		},
	}
}
