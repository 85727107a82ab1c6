// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command utdump dumps the result of running one of this module's
// codecs over a file, the successor to the teacher's cmd/pedumper.go
// (same cobra CLI shape: a root command, one verb per subject, a
// shared --verbose flag flipping the ambient logger to debug level).
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/saferwall/ut/internal/utlog"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "utdump",
		Short: "Dump decoded output from the ut streaming codec substrate",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				utlog.SetLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(asn1Cmd(), gzipCmd(), jpegCmd(), objectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
