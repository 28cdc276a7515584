// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"path"

	"github.com/spf13/cobra"
)

func newImageCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "image <size> <file>",
		Short: "Download an image",
		Long: `Download an image file in the given size, e.g.

  tmdbx image w92 /wdyoUGBhAdGO0ClzWPi0v7pZb98.png

The image is saved under its own name unless --out is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initialize(cmd); err != nil {
				return err
			}
			defer a.close()

			b, err := a.client.Image(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if out == "" {
				out = path.Base(args[1])
			}
			return write(cmd, out, b)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
