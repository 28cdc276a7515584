// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the tmdbx command.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gogama/tmdbx/config"
	"github.com/gogama/tmdbx/tmdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	BuildTime string
	GitCommit string
}

type app struct {
	build    BuildInfo
	cfgFile  string
	envFile  string
	logLevel string
	stderr   io.Writer

	cfg    *config.Config
	logger zerolog.Logger
	client *tmdb.Client
}

// Execute runs the command line and returns the exit code.
func Execute(build BuildInfo) int {
	cmd := NewRootCommand(build)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand returns the tmdbx command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	return newRootCommand(&app{build: build, stderr: os.Stderr})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tmdbx",
		Short: "Call the TMDb API",
		Long: `tmdbx sends requests to The Movie Database API and prints the results.

Settings come from tmdbx.yaml, a .env file and TMDB_* environment
variables. At least TMDB_API_KEY must be set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./tmdbx.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file (default is ./.env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newGetCommand(a))
	root.AddCommand(newImageCommand(a))
	root.AddCommand(newVersionCommand(a))
	return root
}

// initialize loads the configuration and builds the client. Commands
// needing the API run it first.
func (a *app) initialize(cmd *cobra.Command) error {
	var opts []config.Option
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}
	cfg, err := config.Load(a.cfgFile, opts...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = setupLogger(a.stderr, cfg.Logging)

	a.client, err = tmdb.NewFromConfig(cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
}

// setupLogger configures the zerolog logger.
func setupLogger(w io.Writer, cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
