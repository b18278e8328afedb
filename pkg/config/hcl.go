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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/transform"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
//
//	root    = "."
//	package = default_package
//
//	entry "app.py" {
//	  transform = app_module
//	}
//	entry "static" {}
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "pkgsync.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_package": cty.StringVal(DefaultPackage),
			"app_module":      cty.StringVal(transform.AppModuleID),
		},
	}

	// Define HCL schema
	type hclEntry struct {
		Source      string `hcl:"source,label"`
		Destination string `hcl:"destination,optional"`
		Transform   string `hcl:"transform,optional"`
	}
	type hclConfig struct {
		Root          string     `hcl:"root,optional"`
		Package       string     `hcl:"package,optional"`
		Entries       []hclEntry `hcl:"entry,block"`
		Exclude       []string   `hcl:"exclude,optional"`
		IgnoreMarkers []string   `hcl:"ignore_markers,optional"`
		IgnoreGlobs   []string   `hcl:"ignore_globs,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Root:          hclCfg.Root,
		Package:       hclCfg.Package,
		Exclude:       hclCfg.Exclude,
		IgnoreMarkers: hclCfg.IgnoreMarkers,
		IgnoreGlobs:   hclCfg.IgnoreGlobs,
	}
	for _, e := range hclCfg.Entries {
		cfg.Entries = append(cfg.Entries, Entry{
			Source:      e.Source,
			Destination: e.Destination,
			Transform:   e.Transform,
		})
	}

	return cfg, nil
}
