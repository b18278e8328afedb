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
package operation

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/config"
	"github.com/walteh/pkgsync/pkg/log"
	"github.com/walteh/pkgsync/pkg/status"
)

// 🎯 Operator syncs the root tree into the package tree
type Operator interface {
	// Sync runs every manifest entry and returns the run summary
	Sync(ctx context.Context) (*status.Summary, error)
	// Status is a silent preview reporting whether any file would be synced
	Status(ctx context.Context) (bool, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the sync manifest
	Config *config.Config
	// Root is the filesystem sources are read from
	Root billy.Filesystem
	// Package is the filesystem destinations are written to
	Package billy.Filesystem
	// Logger prints console progress
	Logger *log.Logger
	// DryRun reports what would change without writing
	DryRun bool
	// Verbose also reports unchanged files and each synced file of a directory
	Verbose bool
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Root == nil {
		return nil, errors.Errorf("root filesystem is required")
	}
	if opts.Package == nil {
		return nil, errors.Errorf("package filesystem is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return &operator{opts: opts}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	opts Options
}

// 🧰 Env is what the file and directory units share for one run
type Env struct {
	Root    billy.Filesystem
	Status  *status.Manager
	Logger  *log.Logger
	Ignore  *IgnoreMatcher
	Verbose bool
}

// Preview reports whether the run writes nothing
func (e *Env) Preview() bool {
	return e.Status.DryRun()
}

func (o *operator) env(logger *log.Logger, preview bool) *Env {
	return &Env{
		Root:    o.opts.Root,
		Status:  status.New(o.opts.Package, preview),
		Logger:  logger,
		Ignore:  NewIgnoreMatcher(o.opts.Config.IgnoreMarkers, o.opts.Config.IgnoreGlobs),
		Verbose: o.opts.Verbose,
	}
}

// packageName is the package path used in the next-steps hint
func (o *operator) packageName() string {
	cfg := o.opts.Config
	if filepath.IsAbs(cfg.Package) {
		return filepath.Base(cfg.Package)
	}
	return filepath.ToSlash(cfg.Package)
}
