package config

import (
	"fmt"
	"sort"
	"strings"
)

// Config is the merged devstrap configuration
type Config struct {
	Templates []TemplateSpec    `koanf:"templates" toml:"templates" json:"templates"`
	Platform  PlatformConfig    `koanf:"platform" toml:"platform" json:"platform"`
	Packages  []PackageSpec     `koanf:"packages" toml:"packages" json:"packages"`
	Dotfiles  DotfilesConfig    `koanf:"dotfiles" toml:"dotfiles" json:"dotfiles"`
	Shell     ShellConfig       `koanf:"shell" toml:"shell" json:"shell"`
	Vars      map[string]string `koanf:"vars" toml:"vars" json:"vars"`
	MCP       MCPConfig         `koanf:"mcp" toml:"mcp" json:"mcp"`
	Repo      RepoConfig        `koanf:"repo" toml:"repo" json:"repo"`
}

// PlatformConfig overrides platform detection
type PlatformConfig struct {
	Manager string `koanf:"manager" toml:"manager" json:"manager"`
}

// PackageSpec is one entry of the ordered package list
type PackageSpec struct {
	ID       string            `koanf:"id" toml:"id" json:"id"`
	Name     string            `koanf:"name" toml:"name,omitempty" json:"name,omitempty"`
	Optional bool              `koanf:"optional" toml:"optional,omitempty" json:"optional,omitempty"`
	GUI      bool              `koanf:"gui" toml:"gui,omitempty" json:"gui,omitempty"`
	Managers map[string]string `koanf:"managers" toml:"managers,omitempty" json:"managers,omitempty"`
}

// DisplayName returns Name, falling back to ID
func (p PackageSpec) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// DotfilesConfig describes which files are synced into the home directory
type DotfilesConfig struct {
	Source string        `koanf:"source" toml:"source" json:"source"`
	Files  []DotfileSpec `koanf:"files" toml:"files" json:"files"`
	Backup BackupConfig  `koanf:"backup" toml:"backup" json:"backup"`
}

// DotfileSpec maps a file or directory below Dotfiles.Source to a destination
type DotfileSpec struct {
	Source string `koanf:"source" toml:"source" json:"source"`
	Dest   string `koanf:"dest" toml:"dest,omitempty" json:"dest,omitempty"`
}

// BackupConfig controls dotfile backups
type BackupConfig struct {
	Enabled bool     `koanf:"enabled" toml:"enabled" json:"enabled"`
	Keep    int      `koanf:"keep" toml:"keep" json:"keep"`
	Exclude []string `koanf:"exclude" toml:"exclude" json:"exclude"`
}

// ShellConfig is rendered into the RC block of every configured shell
type ShellConfig struct {
	Shells  []string          `koanf:"shells" toml:"shells" json:"shells"`
	Path    []string          `koanf:"path" toml:"path" json:"path"`
	Env     map[string]string `koanf:"env" toml:"env" json:"env"`
	Aliases map[string]string `koanf:"aliases" toml:"aliases" json:"aliases"`
	Source  []string          `koanf:"source" toml:"source" json:"source"`
	Lines   []string          `koanf:"lines" toml:"lines" json:"lines"`
}

// IsEmpty reports whether the block would have no content
func (s ShellConfig) IsEmpty() bool {
	return len(s.Path) == 0 && len(s.Env) == 0 && len(s.Aliases) == 0 &&
		len(s.Source) == 0 && len(s.Lines) == 0
}

// TemplateSpec describes one materialized template
type TemplateSpec struct {
	Name   string `koanf:"name" toml:"name" json:"name"`
	Source string `koanf:"source" toml:"source" json:"source"`
	Dest   string `koanf:"dest" toml:"dest" json:"dest"`
	Mode   string `koanf:"mode" toml:"mode,omitempty" json:"mode,omitempty"`
}

// MCPConfig describes the scaffolded MCP package.json
type MCPConfig struct {
	Dir     string      `koanf:"dir" toml:"dir" json:"dir"`
	Name    string      `koanf:"name" toml:"name" json:"name"`
	Servers []MCPServer `koanf:"servers" toml:"servers" json:"servers"`
}

// MCPServer is one MCP server npm package
type MCPServer struct {
	Name    string `koanf:"name" toml:"name" json:"name"`
	Package string `koanf:"package" toml:"package" json:"package"`
	Version string `koanf:"version" toml:"version,omitempty" json:"version,omitempty"`
}

// RepoConfig points at the dotfiles git repository
type RepoConfig struct {
	URL string `koanf:"url" toml:"url" json:"url"`
	Ref string `koanf:"ref" toml:"ref" json:"ref"`
	Dir string `koanf:"dir" toml:"dir" json:"dir"`
}

// SupportedShells lists the shells an RC block can be rendered for
var SupportedShells = []string{"bash", "zsh", "fish", "pwsh"}

// SupportedManagers lists the package managers devstrap can drive
var SupportedManagers = []string{"brew", "apt", "dnf", "pacman", "zypper", "apk", "winget", "scoop", "choco"}

// Validate checks the configuration for mistakes that would only surface
// halfway through a run.
func (c *Config) Validate() error {
	var problems []string

	if c.Platform.Manager != "" && !contains(SupportedManagers, c.Platform.Manager) {
		problems = append(problems, fmt.Sprintf("platform.manager: unsupported package manager %q", c.Platform.Manager))
	}

	seen := make(map[string]bool, len(c.Packages))
	for i, pkg := range c.Packages {
		if strings.TrimSpace(pkg.ID) == "" {
			problems = append(problems, fmt.Sprintf("packages[%d]: id is required", i))
			continue
		}
		if seen[pkg.ID] {
			problems = append(problems, fmt.Sprintf("packages[%d]: duplicate id %q", i, pkg.ID))
		}
		seen[pkg.ID] = true
		for manager := range pkg.Managers {
			if !contains(SupportedManagers, manager) {
				problems = append(problems, fmt.Sprintf("packages[%d] (%s): unknown manager %q", i, pkg.ID, manager))
			}
		}
	}

	for i, file := range c.Dotfiles.Files {
		if strings.TrimSpace(file.Source) == "" {
			problems = append(problems, fmt.Sprintf("dotfiles.files[%d]: source is required", i))
		}
	}

	if c.Dotfiles.Backup.Keep < 0 {
		problems = append(problems, "dotfiles.backup.keep: must not be negative")
	}

	for _, shell := range c.Shell.Shells {
		if !contains(SupportedShells, shell) {
			problems = append(problems, fmt.Sprintf("shell.shells: unsupported shell %q", shell))
		}
	}

	for i, tmpl := range c.Templates {
		if tmpl.Source == "" || tmpl.Dest == "" {
			problems = append(problems, fmt.Sprintf("templates[%d] (%s): source and dest are required", i, tmpl.Name))
		}
	}

	for i, server := range c.MCP.Servers {
		if server.Package == "" {
			problems = append(problems, fmt.Sprintf("mcp.servers[%d] (%s): package is required", i, server.Name))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return &ValidationError{Problems: problems}
}

// ValidationError lists every problem found by Validate
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration:\n  " + strings.Join(e.Problems, "\n  ")
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
