package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/devstrap/pkg/filesystem"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a complete test environment with all dependencies
type TestEnvironment struct {
	// Core paths
	Root         string
	HomeDir      string
	DotfilesRoot string

	// Core dependencies
	FS     types.FS
	Paths  paths.Paths
	Runner *FakeRunner
	Probe  *FakeProbe

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment. HOME and the
// DEVSTRAP_*_DIR overrides are pointed into the environment for the duration
// of the test.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:      t,
		Type:   envType,
		Runner: NewFakeRunner(),
		Probe:  NewUbuntuProbe(),
	}

	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual"
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		env.Root = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.HomeDir = filepath.Join(env.Root, "home")
	env.DotfilesRoot = filepath.Join(env.Root, "dotfiles")

	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv(paths.EnvConfigDir, filepath.Join(env.HomeDir, ".config", "devstrap"))
	t.Setenv(paths.EnvDataDir, filepath.Join(env.HomeDir, ".local", "share", "devstrap"))
	t.Setenv(paths.EnvStateDir, filepath.Join(env.HomeDir, ".local", "state", "devstrap"))
	t.Setenv("SHELL", "/bin/zsh")

	p, err := paths.New()
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	for _, dir := range []string{env.HomeDir, env.DotfilesRoot} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	return env
}

// HomePath joins rel onto the home directory
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, filepath.FromSlash(rel))
}

// DotfilePath joins rel onto the dotfiles root
func (env *TestEnvironment) DotfilePath(rel string) string {
	return filepath.Join(env.DotfilesRoot, filepath.FromSlash(rel))
}

// WriteHomeFile creates a file below the home directory
func (env *TestEnvironment) WriteHomeFile(rel, content string) string {
	env.t.Helper()
	path := env.HomePath(rel)
	env.writeFile(path, content)
	return path
}

// WriteDotfile creates a file below the dotfiles root
func (env *TestEnvironment) WriteDotfile(rel, content string) string {
	env.t.Helper()
	path := env.DotfilePath(rel)
	env.writeFile(path, content)
	return path
}

// WithFileTree creates every path -> content entry below the dotfiles root
func (env *TestEnvironment) WithFileTree(tree map[string]string) {
	env.t.Helper()
	for rel, content := range tree {
		env.writeFile(env.DotfilePath(rel), content)
	}
}

// ReadFile returns the content of path, failing the test when unreadable
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists
func (env *TestEnvironment) Exists(path string) bool {
	_, err := env.FS.Stat(path)
	return err == nil
}

func (env *TestEnvironment) writeFile(path, content string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}
