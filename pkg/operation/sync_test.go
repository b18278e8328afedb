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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/pkgsync/pkg/config"
	"github.com/walteh/pkgsync/pkg/status"
	"github.com/walteh/pkgsync/pkg/transform"
)

func transformTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "transform", "testdata", name))
	require.NoError(t, err, "reading transform testdata %s", name)
	return string(data)
}

func playgroundRoot(t *testing.T) map[string]string {
	return map[string]string{
		"app.py":                                    transformTestdata(t, "app_root.py"),
		"container_manager.py":                      "class ContainerManager: ...\n",
		"index.html":                                "<html></html>\n",
		"static/js/app.js":                          "console.log('hi')\n",
		"static/css/site.css":                       "body {}\n",
		"static/.DS_Store":                          "junk",
		"mcp_client/__init__.py":                    "MCP_AVAILABLE = True\n",
		"mcp_client/client.py":                      "class Client: ...\n",
		"mcp_client/__pycache__/client.cpython.pyc": "bytecode",
	}
}

func TestOperator_Sync(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, playgroundRoot(t))

	summary, err := f.operator(t, config.Default(), false, false).Sync(ctx)
	require.NoError(t, err)

	assert.False(t, summary.DryRun)
	assert.Equal(t, 7, summary.Total())
	assert.Equal(t, 4, summary.Count(status.OutcomeSkipped), "benchmarks.json, assets, config and recipes are missing")
	require.Len(t, summary.Entries, 9, "every manifest entry is reported")
	assert.Equal(t, status.EntryResult{
		Source:      "app.py",
		Destination: "app.py",
		Transformed: true,
		Outcome:     status.OutcomeSynced,
		Files:       1,
	}, summary.Entries[0])

	assert.Equal(t, transformTestdata(t, "app_package.py"), f.readPkg(t, "app.py"))
	assert.Equal(t, "<html></html>\n", f.readPkg(t, "index.html"))
	assert.Equal(t, "console.log('hi')\n", f.readPkg(t, "static/js/app.js"))
	assert.Equal(t, "class Client: ...\n", f.readPkg(t, "mcp_client/client.py"))
	assert.False(t, f.pkgExists("mcp_client/__pycache__"))
	assert.False(t, f.pkgExists("static/.DS_Store"))

	out := f.console.String()
	for _, want := range []string{
		"Package: vllm_playground",
		"📁 app.py (with transforms)",
		"ℹ️  Transformed MCP imports (absolute → relative)",
		"✅ Synced: app.py",
		"📁 static",
		"(2 files)",
		"⚠️  Source not found: recipes",
		"✅: Synced 7 file(s)",
		"1. Review changes: git diff vllm_playground/",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Mode:    DRY RUN")
}

func TestOperator_SyncTwiceIsNoop(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, playgroundRoot(t))

	_, err := f.operator(t, config.Default(), false, false).Sync(ctx)
	require.NoError(t, err)

	f.console.Reset()
	summary, err := f.operator(t, config.Default(), false, false).Sync(ctx)
	require.NoError(t, err)

	assert.Zero(t, summary.Total())
	assert.Equal(t, 5, summary.Count(status.OutcomeUnchanged), "present files and directories are unchanged")
	assert.Equal(t, 4, summary.Count(status.OutcomeSkipped))
	assert.Contains(t, f.console.String(), "✅: Synced 0 file(s)")
	assert.NotContains(t, f.console.String(), "Next steps:")
}

func TestOperator_DryRunMatchesRealRun(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, playgroundRoot(t))
	f.writePkg(t, "index.html", "<html></html>\n")
	f.writePkg(t, "static/css/site.css", "old\n")

	preview, err := f.operator(t, config.Default(), true, false).Sync(ctx)
	require.NoError(t, err)

	assert.True(t, preview.DryRun)
	assert.False(t, f.pkgExists("app.py"), "dry run must not write")
	assert.Equal(t, "old\n", f.readPkg(t, "static/css/site.css"), "dry run must not overwrite")

	out := f.console.String()
	assert.Contains(t, out, "Mode:    DRY RUN (no changes will be made)")
	assert.Contains(t, out, "📝 Would sync: app.py → app.py")
	assert.Contains(t, out, "📝 Would sync: css/site.css")
	assert.Contains(t, out, "📊: Would sync 6 file(s)")
	assert.NotContains(t, out, "Next steps:")

	applied, err := f.operator(t, config.Default(), false, false).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, preview.Total(), applied.Total(), "preview count must equal real-run count")
}

func TestOperator_Verbose(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, map[string]string{"index.html": "same", "config/a.json": "{}"})
	f.writePkg(t, "index.html", "same")

	cfg := &config.Config{
		Root:    ".",
		Package: "vllm_playground",
		Entries: []config.Entry{{Source: "index.html"}, {Source: "config"}},
	}

	_, err := f.operator(t, cfg, false, true).Sync(ctx)
	require.NoError(t, err)

	assert.Contains(t, f.console.String(), "⏭️  index.html (unchanged)")
	assert.Contains(t, f.console.String(), "✅ Synced: a.json")
}

func TestOperator_ExcludedEntryStillSynced(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, map[string]string{"cli.py": "main()\n"})

	cfg := &config.Config{
		Root:    ".",
		Package: "vllm_playground",
		Entries: []config.Entry{{Source: "cli.py"}},
		Exclude: []string{"cli.py"},
	}

	summary, err := f.operator(t, cfg, false, false).Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total())
	assert.Equal(t, "main()\n", f.readPkg(t, "cli.py"))
	assert.Contains(t, f.console.String(), "cli.py targets excluded path cli.py, syncing anyway")
}

func TestOperator_TransformOnDirectoryIgnored(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, map[string]string{"static/app.py": "from mcp_client import X\n"})

	cfg := &config.Config{
		Root:    ".",
		Package: "vllm_playground",
		Entries: []config.Entry{{Source: "static", Transform: transform.AppModuleID}},
	}

	summary, err := f.operator(t, cfg, false, false).Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, "from mcp_client import X\n", f.readPkg(t, "static/app.py"), "directory contents are copied verbatim")
	assert.False(t, summary.Entries[0].Transformed)
	assert.Contains(t, f.console.String(), "does not apply to directory static")
}

func TestOperator_Cancelled(t *testing.T) {
	f := newFixture(t, playgroundRoot(t))

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := f.operator(t, config.Default(), false, false).Sync(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.pkgExists("app.py"))
}

func TestOperator_Status(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, playgroundRoot(t))
	op := f.operator(t, config.Default(), false, false)

	stale, err := op.Status(ctx)
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Empty(t, f.console.String(), "status is silent")
	assert.False(t, f.pkgExists("app.py"), "status never writes")

	_, err = op.Sync(ctx)
	require.NoError(t, err)

	stale, err = op.Status(ctx)
	require.NoError(t, err)
	assert.False(t, stale)
}
