package mcp

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcpConfig(dir string) config.MCPConfig {
	return config.MCPConfig{
		Dir:  dir,
		Name: "devstrap-mcp-servers",
		Servers: []config.MCPServer{
			{Name: "filesystem", Package: "@modelcontextprotocol/server-filesystem", Version: "0.6.2"},
			{Name: "memory", Package: "@modelcontextprotocol/server-memory"},
		},
	}
}

func TestScaffoldFresh(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	cfg := mcpConfig(env.Paths.MCPDir())
	w := filesync.NewWriter(env.FS, false)

	res := Scaffold(w, cfg)
	require.Equal(t, filesync.OutcomeWritten, res.Outcome, res.Error)
	assert.Equal(t, filepath.Join(cfg.Dir, "package.json"), res.Path)

	want := `{
  "dependencies": {
    "@modelcontextprotocol/server-filesystem": "0.6.2",
    "@modelcontextprotocol/server-memory": "latest"
  },
  "name": "devstrap-mcp-servers",
  "private": true
}
`
	assert.Equal(t, want, env.ReadFile(res.Path))

	again := Scaffold(w, cfg)
	assert.Equal(t, filesync.OutcomeUnchanged, again.Outcome)
}

func TestScaffoldMergesExisting(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	cfg := mcpConfig(env.Paths.MCPDir())
	existing := `{
  // pinned by hand
  "name": "old-name",
  "version": "1.0.0",
  "scripts": {"start": "node index.js"},
  "engines": {"node": ">=18"},
  "dependencies": {
    "left-pad": "1.3.0",
    "@modelcontextprotocol/server-filesystem": "0.5.0",
  },
}`
	require.NoError(t, env.FS.MkdirAll(cfg.Dir, 0755))
	require.NoError(t, env.FS.WriteFile(Path(cfg), []byte(existing), 0644))

	res := Scaffold(filesync.NewWriter(env.FS, false), cfg)
	require.Equal(t, filesync.OutcomeWritten, res.Outcome, res.Error)

	doc, err := Parse([]byte(env.ReadFile(res.Path)))
	require.NoError(t, err)
	assert.Equal(t, "devstrap-mcp-servers", doc["name"])
	assert.Equal(t, true, doc["private"])
	assert.Equal(t, "1.0.0", doc["version"])
	assert.Equal(t, map[string]interface{}{"start": "node index.js"}, doc["scripts"])

	deps := doc["dependencies"].(map[string]interface{})
	assert.Equal(t, "1.3.0", deps["left-pad"])
	assert.Equal(t, "0.6.2", deps["@modelcontextprotocol/server-filesystem"])
	assert.Equal(t, "latest", deps["@modelcontextprotocol/server-memory"])
}

func TestScaffoldDryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	cfg := mcpConfig(env.Paths.MCPDir())

	res := Scaffold(filesync.NewWriter(env.FS, true), cfg)
	assert.Equal(t, filesync.OutcomeWritten, res.Outcome)
	assert.True(t, res.DryRun)
	assert.False(t, env.Exists(Path(cfg)))
}

func TestScaffoldErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode errors.ErrorCode
	}{
		{name: "malformed json", content: `{"name": `, wantCode: errors.ErrConfigParse},
		{name: "dependencies not an object", content: `{"dependencies": ["a"]}`, wantCode: errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			cfg := mcpConfig(env.Paths.MCPDir())
			require.NoError(t, env.FS.MkdirAll(cfg.Dir, 0755))
			require.NoError(t, env.FS.WriteFile(Path(cfg), []byte(tt.content), 0644))

			res := Scaffold(filesync.NewWriter(env.FS, false), cfg)
			assert.Equal(t, filesync.OutcomeFailed, res.Outcome)
			assert.True(t, errors.IsErrorCode(res.Err, tt.wantCode), "got %v", res.Err)
			assert.Equal(t, tt.content, env.ReadFile(Path(cfg)))
		})
	}
}

func TestParsePreservesNumbers(t *testing.T) {
	doc, err := Parse([]byte(`{"port": 12345678901234567890, "ratio": 1.50}`))
	require.NoError(t, err)
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"port": 12345678901234567890`)
	assert.Contains(t, string(out), `"ratio": 1.50`)
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, doc)
}
