// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"runtime"

	"github.com/gogama/tmdbx"
	"github.com/spf13/cobra"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "tmdbx %s\n", tmdbx.Version)
			_, _ = fmt.Fprintf(w, "  commit:  %s\n", a.build.GitCommit)
			_, _ = fmt.Fprintf(w, "  built:   %s\n", a.build.BuildTime)
			_, _ = fmt.Fprintf(w, "  go:      %s\n", runtime.Version())
		},
	}
}
