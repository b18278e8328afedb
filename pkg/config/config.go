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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/transform"
)

const (
	// DefaultRoot is the root tree, relative to the working directory
	DefaultRoot = "."
	// DefaultPackage is the package tree, relative to the root
	DefaultPackage = "vllm_playground"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 Entry maps one root-relative source to a package-relative destination.
// Whether it is a file or a directory is decided when it is synced.
type Entry struct {
	Source      string `yaml:"source" json:"source"`
	Destination string `yaml:"destination,omitempty" json:"destination,omitempty"`
	Transform   string `yaml:"transform,omitempty" json:"transform,omitempty"` // Registered transform id, empty for a plain copy
}

// 📚 Config is the sync manifest plus the settings around it
type Config struct {
	Root          string   `yaml:"root,omitempty" json:"root,omitempty"`
	Package       string   `yaml:"package,omitempty" json:"package,omitempty"`
	Entries       []Entry  `yaml:"entries,omitempty" json:"entries,omitempty"`
	Exclude       []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`               // Package files never to overwrite; advisory
	IgnoreMarkers []string `yaml:"ignore_markers,omitempty" json:"ignore_markers,omitempty"` // Substrings that mark build artifacts
	IgnoreGlobs   []string `yaml:"ignore_globs,omitempty" json:"ignore_globs,omitempty"`     // Extra doublestar patterns to skip

	location string
}

// 🏭 Default returns the compiled-in manifest
func Default() *Config {
	return &Config{
		Root:    DefaultRoot,
		Package: DefaultPackage,
		Entries: []Entry{
			{Source: "app.py", Destination: "app.py", Transform: transform.AppModuleID},
			{Source: "container_manager.py", Destination: "container_manager.py"},

			{Source: "index.html", Destination: "index.html"},
			{Source: "benchmarks.json", Destination: "benchmarks.json"},

			{Source: "static", Destination: "static"},
			{Source: "assets", Destination: "assets"},
			{Source: "config", Destination: "config"},
			{Source: "recipes", Destination: "recipes"},
			{Source: "mcp_client", Destination: "mcp_client"},
		},
		Exclude: []string{
			"__init__.py",
			"cli.py",
			"__pycache__",
		},
		IgnoreMarkers: []string{
			"__pycache__",
			".pyc",
			".DS_Store",
		},
	}
}

// 🎯 Load loads the configuration from a file. Settings the file leaves
// empty keep their compiled-in values.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	cfg.applyDefaults()

	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	def := Default()
	if cfg.Root == "" {
		cfg.Root = def.Root
	}
	if cfg.Package == "" {
		cfg.Package = def.Package
	}
	if len(cfg.Entries) == 0 {
		cfg.Entries = def.Entries
	}
	if cfg.Exclude == nil {
		cfg.Exclude = def.Exclude
	}
	if cfg.IgnoreMarkers == nil {
		cfg.IgnoreMarkers = def.IgnoreMarkers
	}
}

// 🔍 Validate checks if the configuration is valid and fills in destinations
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	if cfg.Package == "" {
		return errors.Errorf("package is required")
	}

	for i := range cfg.Entries {
		e := &cfg.Entries[i]
		if e.Source == "" {
			return errors.Errorf("entry %d: source is required", i)
		}
		if e.Destination == "" {
			e.Destination = e.Source
		}

		e.Source = filepath.Clean(e.Source)
		e.Destination = filepath.Clean(e.Destination)

		if !filepath.IsLocal(e.Source) || e.Source == "." {
			return errors.Errorf("entry %d: source %q must be a relative path inside the root", i, e.Source)
		}
		if !filepath.IsLocal(e.Destination) || e.Destination == "." {
			return errors.Errorf("entry %d: destination %q must be a relative path inside the package", i, e.Destination)
		}

		if e.Transform != "" {
			if _, ok := transform.Lookup(e.Transform); !ok {
				return errors.Errorf("entry %d: unknown transform %q (known: %s)", i, e.Transform, strings.Join(transform.IDs(), ", "))
			}
		}
	}

	for _, marker := range cfg.IgnoreMarkers {
		if marker == "" {
			return errors.Errorf("ignore_markers: empty marker would ignore every file")
		}
	}

	for _, pattern := range cfg.IgnoreGlobs {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore_globs: invalid pattern %q", pattern)
		}
	}

	return nil
}

// PackageDir is the package tree. A relative package lives under the root.
func (cfg *Config) PackageDir() string {
	if filepath.IsAbs(cfg.Package) {
		return cfg.Package
	}
	return filepath.Join(cfg.Root, cfg.Package)
}

// Location is the file the config was loaded from, empty for the compiled-in manifest
func (cfg *Config) Location() string {
	return cfg.location
}

// ⚠️ Excluded reports whether an entry's destination is on the exclusion list.
// Nothing stops such an entry from being synced; callers only warn about it.
func (cfg *Config) Excluded(e Entry) bool {
	dst := filepath.ToSlash(e.Destination)
	for _, ex := range cfg.Exclude {
		ex = filepath.ToSlash(filepath.Clean(ex))
		if dst == ex || filepath.Base(e.Destination) == ex || strings.HasPrefix(dst, ex+"/") {
			return true
		}
	}
	return false
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (%d entries)", cfg.Root, cfg.PackageDir(), len(cfg.Entries))
}
