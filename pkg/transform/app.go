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

package transform

import (
	"strings"

	"github.com/walteh/pkgsync/pkg/text"
)

// AppModuleID selects the app module transform in a manifest
const AppModuleID = "app-module"

func init() {
	if err := text.NewSimpleTextReplacer().ValidateRules(fixupRules()); err != nil {
		panic(err)
	}
	Register(AppModuleID, NewAppModule())
}

const (
	containerMarker  = "# Import container manager (optional - only needed for container mode)"
	containerInit    = "container_manager = None  # Initialize as None for when import fails"
	containerImport  = "from container_manager import container_manager"
	relativeImport   = "from .container_manager import container_manager"
	relocatedSignal  = "from .container_manager import"
	relocatedMCPHint = "from .mcp_client import"
)

const (
	readLogsSignature = "async def read_logs_container():\n" +
		"    \"\"\"Read logs from vLLM container\"\"\"\n" +
		"    global vllm_running\n" +
		"    \n" +
		"    try:"
	readLogsGuarded = "async def read_logs_container():\n" +
		"    \"\"\"Read logs from vLLM container\"\"\"\n" +
		"    global vllm_running\n" +
		"    \n" +
		"    if not container_manager:\n" +
		"        logger.error(\"read_logs_container called but container_manager is not available\")\n" +
		"        return\n" +
		"    \n" +
		"    try:"
)

// 🐍 AppModule rewrites the application entry point for the package layout.
//
// The root form imports container_manager and mcp_client as top-level
// modules. The package form imports them relatively and tolerates
// container_manager being None.
type AppModule struct {
	guards   *LinePass
	fixups   []text.ReplacementRule
	replacer *text.SimpleTextReplacer
}

// NewAppModule builds the app module transform
func NewAppModule() *AppModule {
	return &AppModule{
		guards:   NewLinePass(containerGuardRules()...),
		fixups:   fixupRules(),
		replacer: text.NewSimpleTextReplacer(),
	}
}

func containerGuardRules() []LineRule {
	return []LineRule{
		&insertAfterMarker{
			name:   "container_manager_init",
			marker: containerMarker,
			opener: "try:",
			insert: containerInit,
		},
		&replaceInLine{
			name: "container_manager_relative_import",
			from: containerImport,
			to:   relativeImport,
		},
		&guardCondition{
			name:    "guard_container_mode",
			matches: containing(`if current_run_mode == "container":`),
			skipIf:  "CONTAINER_MODE_AVAILABLE",
			uses:    "container_manager.",
			from:    `if current_run_mode == "container":`,
			to:      `if current_run_mode == "container" and CONTAINER_MODE_AVAILABLE and container_manager:`,
		},
		&guardCondition{
			name:      "guard_container_available",
			matches:   trimmedPrefix("if CONTAINER_MODE_AVAILABLE"),
			skipIf:    "container_manager",
			uses:      "container_manager.",
			from:      "if CONTAINER_MODE_AVAILABLE:",
			to:        "if CONTAINER_MODE_AVAILABLE and container_manager:",
			trimRight: true,
		},
		&guardCondition{
			name:    "guard_container_kubernetes",
			matches: containing(`if current_run_mode == "container" and is_kubernetes:`),
			skipIf:  "container_manager",
			uses:    "container_manager",
			from:    `if current_run_mode == "container" and is_kubernetes:`,
			to:      `if current_run_mode == "container" and is_kubernetes and container_manager:`,
		},
		&guardCondition{
			name:    "guard_kubernetes_hasattr",
			matches: containing("if is_kubernetes and hasattr(container_manager"),
			skipIf:  "and container_manager and",
			from:    "if is_kubernetes and hasattr(container_manager",
			to:      "if is_kubernetes and container_manager and hasattr(container_manager",
		},
	}
}

func fixupRules() []text.ReplacementRule {
	return []text.ReplacementRule{
		{
			Name:        "read_logs_container_guard",
			FromText:    readLogsSignature,
			ToText:      readLogsGuarded,
			RequireText: "async def read_logs_container():",
			UnlessText:  "if not container_manager:",
		},
		{
			Name:     "container_mode_validation",
			FromText: `if config.run_mode == "container" and not CONTAINER_MODE_AVAILABLE:`,
			ToText:   `if config.run_mode == "container" and (not CONTAINER_MODE_AVAILABLE or not container_manager):`,
		},
		{
			Name:     "mcp_relative_import",
			FromText: "from mcp_client import MCP_AVAILABLE, MCP_VERSION",
			ToText:   "from .mcp_client import MCP_AVAILABLE, MCP_VERSION",
		},
		{
			Name:     "mcp_manager_relative_import",
			FromText: "from mcp_client.manager import get_mcp_manager",
			ToText:   "from .mcp_client.manager import get_mcp_manager",
		},
		{
			Name:     "mcp_config_relative_import",
			FromText: "from mcp_client.config import MCPServerConfig, MCPTransport, MCP_PRESETS",
			ToText:   "from .mcp_client.config import MCPServerConfig, MCPTransport, MCP_PRESETS",
		},
	}
}

// Transform implements Transformer
func (a *AppModule) Transform(content string) Result {
	var res Result

	result := content
	if strings.Contains(content, relocatedSignal) {
		res.ShortCircuited = true
		res.Notes = append(res.Notes, "container_manager already transformed, skipping those transforms")
	} else {
		var applied []string
		result, applied = a.guards.Run(content)
		res.Applied = append(res.Applied, applied...)
	}

	fixed := a.replacer.ReplaceText(result, a.fixups)
	res.Applied = append(res.Applied, fixed.Applied...)
	res.Text = fixed.ModifiedContent

	if strings.Contains(res.Text, relocatedMCPHint) {
		res.Notes = append(res.Notes, "Transformed MCP imports (absolute → relative)")
	}

	return res
}
