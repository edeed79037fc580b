package paths

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHonoursOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvHome, filepath.Join(root, "home"))
	t.Setenv(EnvConfigDir, filepath.Join(root, "cfg"))
	t.Setenv(EnvDataDir, filepath.Join(root, "data"))
	t.Setenv(EnvStateDir, filepath.Join(root, "state"))

	p, err := New()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "home"), p.HomeDir())
	assert.Equal(t, filepath.Join(root, "cfg"), p.ConfigDir())
	assert.Equal(t, filepath.Join(root, "data"), p.DataDir())
	assert.Equal(t, filepath.Join(root, "state"), p.StateDir())
	assert.Equal(t, filepath.Join(root, "state", "backups"), p.BackupsDir())
	assert.Equal(t, filepath.Join(root, "data", "mcp"), p.MCPDir())
	assert.Equal(t, filepath.Join(root, "data", "dotfiles"), p.RepoDir())
	assert.Equal(t, filepath.Join(root, "state", "devstrap.log"), p.LogFilePath())
	assert.Equal(t, filepath.Join(root, "cfg", "devstrap.toml"), p.ConfigFile())
}

func TestConfigFilePrefersExistingFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvConfigDir, root)

	yamlPath := filepath.Join(root, "devstrap.yaml")
	require.NoError(t, writeFile(yamlPath))

	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, yamlPath, p.ConfigFile())
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvHome, "/home/dev")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", "/home/dev"},
		{"~/.zshrc", filepath.Join("/home/dev", ".zshrc")},
		{"~other/.zshrc", "~other/.zshrc"},
		{"/etc/hosts", "/etc/hosts"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestExpandAndContractHome(t *testing.T) {
	home := "/home/dev"
	assert.Equal(t, filepath.Join(home, ".gitconfig"), ExpandHomeIn(home, "~/.gitconfig"))
	assert.Equal(t, home, ExpandHomeIn(home, "~"))
	assert.Equal(t, "relative/file", ExpandHomeIn(home, "relative/file"))

	assert.Equal(t, filepath.Join("~", ".gitconfig"), ContractHome(home, filepath.Join(home, ".gitconfig")))
	assert.Equal(t, "~", ContractHome(home, home))
	assert.Equal(t, "/etc/hosts", ContractHome(home, "/etc/hosts"))
}

func TestValidateRelative(t *testing.T) {
	assert.NoError(t, ValidateRelative(".config/nvim/init.lua"))
	assert.True(t, errors.IsErrorCode(ValidateRelative(""), errors.ErrInvalidInput))
	assert.True(t, errors.IsErrorCode(ValidateRelative("/etc/passwd"), errors.ErrInvalidInput))
	assert.True(t, errors.IsErrorCode(ValidateRelative("../outside"), errors.ErrInvalidInput))
	assert.True(t, errors.IsErrorCode(ValidateRelative("a/../../outside"), errors.ErrInvalidInput))
	assert.NoError(t, ValidateRelative("a/../b"))
}

func TestContainsPath(t *testing.T) {
	assert.True(t, ContainsPath("/home/dev", "/home/dev/.config"))
	assert.True(t, ContainsPath("/home/dev", "/home/dev"))
	assert.False(t, ContainsPath("/home/dev", "/home/devx"))
	assert.False(t, ContainsPath("/home/dev", "/etc"))
	assert.True(t, ContainsPath("/home/dev", "/home/dev/..foo"))
}
