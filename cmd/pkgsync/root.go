// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/config"
	"github.com/walteh/pkgsync/pkg/log"
	"github.com/walteh/pkgsync/pkg/operation"
	"github.com/walteh/pkgsync/pkg/status"
)

// rootOpts holds the shared flags
type rootOpts struct {
	configFile string
	root       string
	pkg        string
	dryRun     bool
	verbose    bool
	debug      bool

	stdout io.Writer
	stderr io.Writer
}

// newRootCmd creates the pkgsync command. Running it without a subcommand syncs.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "pkgsync",
		Short: "Sync development sources into the distributable package tree",
		Long: `pkgsync copies the application files and asset directories from the
repository root into the package directory. The main application module is
rewritten on the way so it works as a package member (relative imports and
guards for the optional container manager).

Files are only written when their content changed, so running it twice in a
row writes nothing the second time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), opts))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := opts.operator(ctx)
			if err != nil {
				return err
			}

			if _, err := op.Sync(ctx); err != nil {
				return errors.Errorf("syncing package: %w", err)
			}
			return nil
		},
	}

	addRootFlags(cmd, opts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(
		newStatusCmd(opts),
		newVersionCmd(opts),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (.yaml, .yml, .json or .hcl); the built-in manifest is used when empty")
	cmd.PersistentFlags().StringVar(&opts.root, "root", "", "root tree to sync from (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.pkg, "package", "", "package tree to sync into, relative to root (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be synced without making changes")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "also list unchanged files and every synced file in directories")
}

// setupLogging configures zerolog based on flags and attaches the console logger
func setupLogging(ctx context.Context, opts *rootOpts) context.Context {
	level := zerolog.WarnLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: opts.stderr}).Level(level).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.NewWithLogger(opts.stdout, logger))
}

// loadConfig returns the built-in manifest or the config file, with flag overrides applied
func (opts *rootOpts) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(ctx, opts.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if opts.root != "" {
		cfg.Root = opts.root
	}
	if opts.pkg != "" {
		cfg.Package = opts.pkg
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Str("location", cfg.Location()).Msg("configuration loaded")
	return cfg, nil
}

// operator wires the config, both trees and the console logger together
func (opts *rootOpts) operator(ctx context.Context) (operation.Operator, error) {
	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	op, err := operation.New(operation.Options{
		Config:  cfg,
		Root:    osfs.New(cfg.Root),
		Package: status.NewOSFilesystem(cfg.PackageDir()),
		Logger:  log.FromContext(ctx),
		DryRun:  opts.dryRun,
		Verbose: opts.verbose,
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}
	return op, nil
}
