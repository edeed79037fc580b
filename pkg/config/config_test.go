package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		problem string
	}{
		{
			name:    "empty package id",
			mutate:  func(c *Config) { c.Packages = []PackageSpec{{Name: "Git"}} },
			problem: "packages[0]: id is required",
		},
		{
			name: "duplicate package id",
			mutate: func(c *Config) {
				c.Packages = []PackageSpec{{ID: "git"}, {ID: "git"}}
			},
			problem: `packages[1]: duplicate id "git"`,
		},
		{
			name: "unknown manager mapping",
			mutate: func(c *Config) {
				c.Packages = []PackageSpec{{ID: "git", Managers: map[string]string{"yum": "git"}}}
			},
			problem: `unknown manager "yum"`,
		},
		{
			name:    "unsupported manager override",
			mutate:  func(c *Config) { c.Platform.Manager = "port" },
			problem: `unsupported package manager "port"`,
		},
		{
			name:    "unsupported shell",
			mutate:  func(c *Config) { c.Shell.Shells = []string{"tcsh"} },
			problem: `unsupported shell "tcsh"`,
		},
		{
			name:    "template without dest",
			mutate:  func(c *Config) { c.Templates = []TemplateSpec{{Name: "git", Source: "embedded:gitconfig"}} },
			problem: "templates[0] (git): source and dest are required",
		},
		{
			name:    "mcp server without package",
			mutate:  func(c *Config) { c.MCP.Servers = []MCPServer{{Name: "fs"}} },
			problem: "mcp.servers[0] (fs): package is required",
		},
		{
			name:    "dotfile without source",
			mutate:  func(c *Config) { c.Dotfiles.Files = []DotfileSpec{{Dest: "~/.zshrc"}} },
			problem: "dotfiles.files[0]: source is required",
		},
		{
			name:    "negative keep",
			mutate:  func(c *Config) { c.Dotfiles.Backup.Keep = -1 },
			problem: "dotfiles.backup.keep: must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestValidateValid(t *testing.T) {
	cfg := &Config{
		Packages: []PackageSpec{{ID: "git"}, {ID: "wezterm", GUI: true, Managers: map[string]string{"brew": "--cask wezterm"}}},
		Shell:    ShellConfig{Shells: []string{"zsh", "fish"}},
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidationErrorListsAllProblems(t *testing.T) {
	cfg := &Config{
		Platform: PlatformConfig{Manager: "port"},
		Shell:    ShellConfig{Shells: []string{"csh"}},
	}
	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 2)
}

func TestPackageDisplayName(t *testing.T) {
	assert.Equal(t, "Git", PackageSpec{ID: "git", Name: "Git"}.DisplayName())
	assert.Equal(t, "git", PackageSpec{ID: "git"}.DisplayName())
}

func TestShellConfigIsEmpty(t *testing.T) {
	assert.True(t, ShellConfig{Shells: []string{"zsh"}}.IsEmpty())
	assert.False(t, ShellConfig{Lines: []string{"set -o vi"}}.IsEmpty())
}

func TestDefaultsContentIsEmbedded(t *testing.T) {
	assert.Contains(t, string(DefaultsContent()), "[[packages]]")
}
