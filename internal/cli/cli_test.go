package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/devstrap/pkg/commands"
	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/testutil"
)

type harness struct {
	te     *testutil.TestEnvironment
	stdin  io.Reader
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	te := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	te.Runner.WithBinaries("apt-get")
	return &harness{te: te, stdin: strings.NewReader("")}
}

// run executes the CLI with args and returns the exit code
func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	h.stdout, h.stderr = &bytes.Buffer{}, &bytes.Buffer{}

	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	deps := Deps{
		Stdin:  h.stdin,
		Stdout: h.stdout,
		Stderr: h.stderr,
		Getenv: func(string) string { return "" },
		NewEnv: func(cfg *config.Config, p paths.Paths, stream io.Writer) commands.Env {
			return commands.Env{
				Config: cfg,
				Paths:  p,
				FS:     h.te.FS,
				Runner: h.te.Runner,
				Probe:  h.te.Probe,
				Now: func() time.Time {
					now = now.Add(time.Minute)
					return now
				},
				Hostname:   "devbox",
				Privileged: func() bool { return true },
				Progress:   stream,
			}
		},
	}
	return Execute(context.Background(), args, deps)
}

func (h *harness) writeConfig(t *testing.T, content string) {
	t.Helper()
	path := h.te.Paths.ConfigFile()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "version"))
	assert.Contains(t, h.stdout.String(), "devstrap version dev")
}

func TestDetect(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "detect", "--format", "text"))

	out := h.stdout.String()
	assert.Contains(t, out, "linux/amd64")
	assert.Contains(t, out, "ubuntu")
	assert.Contains(t, out, "apt (installed)")
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.run(t, "detect", "--format", "yaml"))
	assert.Contains(t, h.stderr.String(), "unknown format")
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t)
	path := h.te.Paths.ConfigFile()

	require.Equal(t, 0, h.run(t, "config", "init", "--dry-run", "--format", "text"))
	assert.NoFileExists(t, path)

	require.Equal(t, 0, h.run(t, "config", "init", "--format", "text"))
	assert.FileExists(t, path)
	assert.Contains(t, h.stdout.String(), "Wrote the default configuration")

	assert.Equal(t, 1, h.run(t, "config", "init", "--format", "text"))
	assert.Contains(t, h.stderr.String(), "already exists")

	require.Equal(t, 0, h.run(t, "config", "init", "--force", "--format", "text"))

	require.Equal(t, 0, h.run(t, "config", "show", "--format", "json"))
	var shown struct {
		Config struct {
			Packages []struct {
				ID string `json:"id"`
			} `json:"packages"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &shown))
	require.NotEmpty(t, shown.Config.Packages)
	assert.Equal(t, "git", shown.Config.Packages[0].ID)
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, "[shell]\nshells = [\"tcsh\"]\n")

	assert.Equal(t, 1, h.run(t, "detect", "--format", "json"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(h.stderr.Bytes(), &got))
	assert.Equal(t, "CONFIG_INVALID", got["code"])
}

const packagesConfig = `
[[packages]]
id = "git"

[[packages]]
id = "jq"
optional = true
`

func TestPackages(t *testing.T) {
	t.Run("dry run plans", func(t *testing.T) {
		h := newHarness(t)
		h.writeConfig(t, packagesConfig)
		h.te.Runner.Fail("dpkg -s", 1)

		require.Equal(t, 0, h.run(t, "packages", "--dry-run", "--format", "json"))

		var got commands.InstallPackagesResult
		require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &got))
		require.Len(t, got.Report.Steps, 2)
		assert.Equal(t, "planned", string(got.Report.Steps[0].Outcome))
		for _, cmd := range h.te.Runner.Commands() {
			assert.True(t, strings.HasPrefix(cmd, "dpkg -s "), cmd)
		}
	})

	t.Run("optional failure exits 1 without error message", func(t *testing.T) {
		h := newHarness(t)
		h.writeConfig(t, packagesConfig)
		h.te.Runner.Fail("dpkg -s", 1)
		h.te.Runner.Fail("apt-get install -y --no-install-recommends jq", 100)

		assert.Equal(t, 1, h.run(t, "packages", "--format", "text"))
		assert.Contains(t, h.stdout.String(), "✓ git")
		assert.Contains(t, h.stdout.String(), "✗ jq")
		assert.Empty(t, h.stderr.String())
	})

	t.Run("required failure reports the error", func(t *testing.T) {
		h := newHarness(t)
		h.writeConfig(t, packagesConfig)
		h.te.Runner.Fail("dpkg -s", 1)
		h.te.Runner.Fail("apt-get install -y --no-install-recommends git", 100)

		assert.Equal(t, 1, h.run(t, "packages", "--format", "text"))
		assert.Contains(t, h.stdout.String(), "✗ git")
		assert.Contains(t, h.stderr.String(), "Error:")
	})

	t.Run("list", func(t *testing.T) {
		h := newHarness(t)
		h.writeConfig(t, packagesConfig)

		require.Equal(t, 0, h.run(t, "packages", "--list", "--format", "text"))
		assert.Contains(t, h.stdout.String(), "jq")
		assert.Empty(t, h.te.Runner.Calls())
	})
}

func TestShellRejectsUnknownShell(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.run(t, "shell", "--shell", "tcsh", "--format", "text"))
	assert.Contains(t, h.stderr.String(), "unsupported shell")
}

func TestDotfilesBackupRestore(t *testing.T) {
	h := newHarness(t)
	h.te.WriteDotfile(".zshrc", "new\n")
	zshrc := h.te.WriteHomeFile(".zshrc", "old\n")
	h.writeConfig(t, fmt.Sprintf("[dotfiles]\nsource = %q\nfiles = [{ source = \".zshrc\" }]\n", h.te.DotfilesRoot))

	require.Equal(t, 0, h.run(t, "dotfiles", "--format", "text"))
	assert.Equal(t, "new\n", h.te.ReadFile(zshrc))

	require.Equal(t, 0, h.run(t, "backup", "list", "--format", "json"))
	var listed commands.BackupListResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &listed))
	require.Len(t, listed.Backups, 1)

	// stdin is not a terminal: the overwrite is declined
	require.Equal(t, 0, h.run(t, "restore", "--format", "json"))
	var declined commands.RestoreResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &declined))
	assert.True(t, declined.Declined)
	assert.Equal(t, "new\n", h.te.ReadFile(zshrc))

	require.Equal(t, 0, h.run(t, "restore", listed.Backups[0].ID, "--yes", "--format", "text"))
	assert.Equal(t, "old\n", h.te.ReadFile(zshrc))

	assert.Equal(t, 1, h.run(t, "restore", "nope", "--yes", "--format", "text"))
	assert.Contains(t, h.stderr.String(), "nope")

	require.Equal(t, 0, h.run(t, "backup", "prune", "--keep", "0", "--format", "json"))
	var pruned commands.PruneResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &pruned))
	assert.Equal(t, 0, pruned.Keep)
	assert.NotEmpty(t, pruned.Removed)

	require.Equal(t, 0, h.run(t, "backup", "list", "--format", "json"))
	var after commands.BackupListResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &after))
	assert.Empty(t, after.Backups)
}

func TestTopics(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "topics"))
	assert.Contains(t, h.stdout.String(), "configuration")
	assert.Contains(t, h.stdout.String(), "--dry-run")

	require.Equal(t, 0, h.run(t, "topics", "backups"))
	assert.Contains(t, h.stdout.String(), "# Backups")

	assert.Equal(t, 1, h.run(t, "topics", "nope"))
	assert.Contains(t, h.stderr.String(), "unknown help topic")
}

func TestHelpListsGroups(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "--help"))

	out := h.stdout.String()
	assert.Contains(t, out, "COMMANDS:")
	assert.Contains(t, out, "BACKUPS:")
	assert.Contains(t, out, "restore")
}
