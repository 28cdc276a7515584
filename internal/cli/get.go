// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gogama/tmdbx/codec"
	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/typeinfo"
	"github.com/spf13/cobra"
)

type getFlags struct {
	vars    []string
	queries []string
	raw     bool
	out     string
}

func newGetCommand(a *app) *cobra.Command {
	var f getFlags
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET an API path and print the response",
		Long: `GET an API path, relative to the API version, and print the JSON response.

Path placeholders are filled from --var flags:

  tmdbx get 'company/{id}' --var id=2
  tmdbx get discover/movie --query with_companies=2,3 --query language=en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := descriptor(args[0], f.vars, f.queries)
			if err != nil {
				return err
			}
			if err := a.initialize(cmd); err != nil {
				return err
			}
			defer a.close()

			t := typeinfo.Simple(codec.Any)
			if f.raw {
				t = typeinfo.Raw()
			}
			v, err := a.client.Do(cmd.Context(), d, t)
			if err != nil {
				return err
			}

			var data []byte
			if b, ok := v.([]byte); ok {
				data = b
			} else if data, err = json.MarshalIndent(v, "", "  "); err != nil {
				return err
			}
			return write(cmd, f.out, data)
		},
	}
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "path variable as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.queries, "query", nil, "query parameter as name=v1,v2 (repeatable)")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "print the response body unchanged")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

func descriptor(path string, vars, queries []string) (*request.Descriptor, error) {
	d := request.Get(path)
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, want name=value", v)
		}
		d = d.WithVar(name, value)
	}
	for _, q := range queries {
		name, value, ok := strings.Cut(q, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --query %q, want name=v1,v2", q)
		}
		parts := strings.Split(value, ",")
		values := make([]any, len(parts))
		for i, p := range parts {
			values[i] = p
		}
		d = d.WithQuery(name, values...)
	}
	return d, nil
}

func write(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), path)
	return nil
}
