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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/pkgsync/pkg/text"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "reading testdata %s", name)
	return string(data)
}

func TestAppModule_Golden(t *testing.T) {
	root := readTestdata(t, "app_root.py")
	want := readTestdata(t, "app_package.py")

	res := NewAppModule().Transform(root)

	assert.Equal(t, want, res.Text)
	assert.False(t, res.ShortCircuited)
	assert.Equal(t, []string{
		"container_manager_init",
		"container_manager_relative_import",
		"guard_container_mode",
		"guard_container_available",
		"guard_container_kubernetes",
		"guard_kubernetes_hasattr",
		"read_logs_container_guard",
		"container_mode_validation",
		"mcp_relative_import",
		"mcp_manager_relative_import",
		"mcp_config_relative_import",
	}, res.Applied)
	assert.Contains(t, res.Notes, "Transformed MCP imports (absolute → relative)")
}

func TestAppModule_Idempotent(t *testing.T) {
	inputs := map[string]string{
		"golden_root":    readTestdata(t, "app_root.py"),
		"golden_package": readTestdata(t, "app_package.py"),
		"empty":          "",
		"single_newline": "\n",
		"import_only":    "from container_manager import container_manager",
		"guards_without_import": strings.Join([]string{
			"if CONTAINER_MODE_AVAILABLE:",
			"    container_manager.stop()",
			`if current_run_mode == "container":`,
			"    container_manager.start()",
		}, "\n"),
		"crlf": strings.Join([]string{
			"# Import container manager (optional - only needed for container mode)",
			"try:",
			"    from container_manager import container_manager",
			"except ImportError:",
			"    pass",
		}, "\r\n"),
	}

	tr := NewAppModule()
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			once := tr.Transform(input)
			twice := tr.Transform(once.Text)
			assert.Equal(t, once.Text, twice.Text, "transform must be a no-op on its own output")
			assert.Empty(t, twice.Applied, "no rule should fire on transformed text")
		})
	}
}

func TestAppModule_KubernetesGuardSeesRewrittenLookahead(t *testing.T) {
	input := strings.Join([]string{
		`if current_run_mode == "container" and is_kubernetes:`,
		`    if current_run_mode == "container":`,
		"        container_manager.start()",
	}, "\n")

	tr := NewAppModule()
	once := tr.Transform(input)
	assert.Equal(t, strings.Join([]string{
		`if current_run_mode == "container" and is_kubernetes:`,
		`    if current_run_mode == "container" and CONTAINER_MODE_AVAILABLE and container_manager:`,
		"        container_manager.start()",
	}, "\n"), once.Text, "the kubernetes guard looks at the unrewritten next line")

	// without the import line nothing short-circuits the second pass, so the
	// kubernetes guard now sees container_manager on the rewritten line
	twice := tr.Transform(once.Text)
	assert.False(t, twice.ShortCircuited)
	assert.Equal(t, []string{"guard_container_kubernetes"}, twice.Applied)
	assert.Equal(t, strings.Join([]string{
		`if current_run_mode == "container" and is_kubernetes and container_manager:`,
		`    if current_run_mode == "container" and CONTAINER_MODE_AVAILABLE and container_manager:`,
		"        container_manager.start()",
	}, "\n"), twice.Text)

	thrice := tr.Transform(twice.Text)
	assert.Equal(t, twice.Text, thrice.Text, "the text settles after the second pass")
	assert.Empty(t, thrice.Applied)
}

func TestAppModule_ContainerImportLine(t *testing.T) {
	tr := NewAppModule()

	res := tr.Transform("from container_manager import container_manager")
	assert.Equal(t, "from .container_manager import container_manager", res.Text)

	again := tr.Transform(res.Text)
	assert.Equal(t, "from .container_manager import container_manager", again.Text)
	assert.True(t, again.ShortCircuited)
}

func TestAppModule_ShortCircuit(t *testing.T) {
	input := strings.Join([]string{
		"# Import container manager (optional - only needed for container mode)",
		"try:",
		"    from .container_manager import container_manager",
		"except ImportError:",
		"    pass",
		"from mcp_client import MCP_AVAILABLE, MCP_VERSION",
		"if CONTAINER_MODE_AVAILABLE:",
		"    container_manager.stop()",
	}, "\n")

	res := NewAppModule().Transform(input)

	assert.True(t, res.ShortCircuited)
	assert.Contains(t, res.Notes, "container_manager already transformed, skipping those transforms")
	assert.NotContains(t, res.Text, "container_manager = None", "init insertion must be skipped")
	assert.Contains(t, res.Text, "\nif CONTAINER_MODE_AVAILABLE:\n", "guard augmentation must be skipped")
	assert.Contains(t, res.Text, "from .mcp_client import MCP_AVAILABLE, MCP_VERSION")
	assert.NotContains(t, res.Text, "\nfrom mcp_client import")
	assert.Equal(t, []string{"mcp_relative_import"}, res.Applied)
}

func TestAppModule_Rules(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name: "init_requires_try_on_next_line",
			input: []string{
				"# Import container manager (optional - only needed for container mode)",
				"",
				"try:",
			},
			want: []string{
				"# Import container manager (optional - only needed for container mode)",
				"",
				"try:",
			},
		},
		{
			name: "init_with_indented_marker",
			input: []string{
				"    # Import container manager (optional - only needed for container mode)",
				"    try:",
			},
			want: []string{
				"    # Import container manager (optional - only needed for container mode)",
				"container_manager = None  # Initialize as None for when import fails",
				"    try:",
			},
		},
		{
			name: "init_marker_on_last_line",
			input: []string{
				"# Import container manager (optional - only needed for container mode)",
			},
			want: []string{
				"# Import container manager (optional - only needed for container mode)",
			},
		},
		{
			name: "mode_guard_skips_blank_lines",
			input: []string{
				`    if current_run_mode == "container":`,
				"",
				"   ",
				"        container_manager.start()",
			},
			want: []string{
				`    if current_run_mode == "container" and CONTAINER_MODE_AVAILABLE and container_manager:`,
				"",
				"   ",
				"        container_manager.start()",
			},
		},
		{
			name: "mode_guard_needs_binding_use",
			input: []string{
				`    if current_run_mode == "container":`,
				"        logger.info(container_manager)",
			},
			want: []string{
				`    if current_run_mode == "container":`,
				"        logger.info(container_manager)",
			},
		},
		{
			name: "mode_guard_keeps_elif_and_comment",
			input: []string{
				`    elif current_run_mode == "container":  # remote`,
				"        container_manager.start()",
			},
			want: []string{
				`    elif current_run_mode == "container" and CONTAINER_MODE_AVAILABLE and container_manager:  # remote`,
				"        container_manager.start()",
			},
		},
		{
			name: "mode_guard_at_end_of_text",
			input: []string{
				`if current_run_mode == "container":`,
				"",
			},
			want: []string{
				`if current_run_mode == "container":`,
				"",
			},
		},
		{
			name: "availability_guard_trims_trailing_space",
			input: []string{
				"    if CONTAINER_MODE_AVAILABLE:   ",
				"        container_manager.stop()",
			},
			want: []string{
				"    if CONTAINER_MODE_AVAILABLE and container_manager:",
				"        container_manager.stop()",
			},
		},
		{
			name: "availability_guard_already_guarded",
			input: []string{
				"    if CONTAINER_MODE_AVAILABLE and container_manager:",
				"        container_manager.stop()",
			},
			want: []string{
				"    if CONTAINER_MODE_AVAILABLE and container_manager:",
				"        container_manager.stop()",
			},
		},
		{
			name: "kubernetes_guard_accepts_bare_binding",
			input: []string{
				`    if current_run_mode == "container" and is_kubernetes:`,
				"        name = container_manager",
			},
			want: []string{
				`    if current_run_mode == "container" and is_kubernetes and container_manager:`,
				"        name = container_manager",
			},
		},
		{
			name: "hasattr_guard_without_lookahead",
			input: []string{
				`    if is_kubernetes and hasattr(container_manager, "pods"):`,
			},
			want: []string{
				`    if is_kubernetes and container_manager and hasattr(container_manager, "pods"):`,
			},
		},
		{
			name: "crlf_preserved_on_insert",
			input: []string{
				"# Import container manager (optional - only needed for container mode)\r",
				"try:\r",
				"",
			},
			want: []string{
				"# Import container manager (optional - only needed for container mode)\r",
				"container_manager = None  # Initialize as None for when import fails\r",
				"try:\r",
				"",
			},
		},
	}

	tr := NewAppModule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tr.Transform(strings.Join(tt.input, "\n"))
			assert.Equal(t, strings.Join(tt.want, "\n"), res.Text)
		})
	}
}

func TestAppModule_FixupsSkipWhenAbsent(t *testing.T) {
	input := "def unrelated():\n    return 1\n"

	res := NewAppModule().Transform(input)

	assert.Equal(t, input, res.Text)
	assert.Empty(t, res.Applied)
	assert.Empty(t, res.Notes)
	assert.False(t, res.Changed())
}

func TestAppModule_ReadLogsGuardOnce(t *testing.T) {
	input := readLogsSignature + "\n        pass\n"

	res := NewAppModule().Transform(input)
	assert.Equal(t, readLogsGuarded+"\n        pass\n", res.Text)

	// a guard elsewhere in the file suppresses the insertion
	guarded := "if not container_manager:\n    pass\n" + input
	res = NewAppModule().Transform(guarded)
	assert.Equal(t, guarded, res.Text)
}

func TestAppModule_FixupRulesValid(t *testing.T) {
	require.NoError(t, text.NewSimpleTextReplacer().ValidateRules(fixupRules()))
}

func TestRegistry(t *testing.T) {
	tr, ok := Lookup(AppModuleID)
	require.True(t, ok, "app module must be registered")
	assert.IsType(t, &AppModule{}, tr)

	_, ok = Lookup("transform_app_py")
	assert.False(t, ok)

	assert.Contains(t, IDs(), AppModuleID)
}
