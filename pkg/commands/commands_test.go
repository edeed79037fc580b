package commands

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/platform"
	"github.com/arthur-debert/devstrap/pkg/runner"
	"github.com/arthur-debert/devstrap/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEnv builds an Env over a test environment with the default config
// pointed at the environment's dotfiles root
func newEnv(t *testing.T, te *testutil.TestEnvironment) Env {
	t.Helper()
	cfg, err := config.Default(te.Paths)
	require.NoError(t, err)
	cfg.Dotfiles.Source = te.DotfilesRoot

	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return Env{
		Config: cfg,
		Paths:  te.Paths,
		FS:     te.FS,
		Runner: te.Runner,
		Probe:  te.Probe,
		Now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
		Hostname:   "devbox",
		Privileged: func() bool { return true },
	}
}

func TestEnvValidate(t *testing.T) {
	_, err := Detect(context.Background(), Env{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestDetect(t *testing.T) {
	t.Run("ubuntu with apt", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Runner.WithBinaries("apt-get")
		env := newEnv(t, te)

		res, err := Detect(context.Background(), env)
		require.NoError(t, err)
		assert.Equal(t, "ubuntu", res.Platform.DistroID)
		assert.Equal(t, platform.Apt, res.Manager)
		assert.True(t, res.Available)
		assert.Nil(t, res.Installer)
		assert.Equal(t, []string{"zsh"}, res.Shells)
		assert.Empty(t, res.Unsupported)
	})

	t.Run("darwin without brew", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Probe = testutil.NewDarwinProbe()
		env := newEnv(t, te)

		res, err := Detect(context.Background(), env)
		require.NoError(t, err)
		assert.Equal(t, platform.Brew, res.Manager)
		assert.False(t, res.Available)
		require.NotNil(t, res.Installer)
	})

	t.Run("unsupported platform is reported", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Probe.OS = "plan9"
		env := newEnv(t, te)

		res, err := Detect(context.Background(), env)
		require.NoError(t, err)
		assert.Empty(t, res.Manager)
		assert.NotEmpty(t, res.Unsupported)
	})
}

func TestInstallPackages(t *testing.T) {
	t.Run("optional failure continues", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Runner.WithBinaries("apt-get")
		te.Runner.Fail("dpkg -s", 1)
		te.Runner.Fail("apt-get install -y --no-install-recommends ripgrep", 100)
		env := newEnv(t, te)

		var seen []string
		res, err := InstallPackages(context.Background(), env, InstallPackagesOptions{
			OnStep: func(s runner.StepResult) { seen = append(seen, s.ID) },
		})
		require.NoError(t, err)
		assert.True(t, res.HasFailures())
		assert.Len(t, seen, 8)

		report := res.Report
		assert.Equal(t, platform.Apt, report.Manager)
		assert.Equal(t, 6, report.Count(runner.OutcomeInstalled))
		assert.Equal(t, 1, report.Count(runner.OutcomeFailed))
		assert.Equal(t, 1, report.Count(runner.OutcomeSkipped))
		assert.Equal(t, "nodejs", report.Steps[6].Package)
		assert.Contains(t, te.Runner.Commands(), "apt-get update")
	})

	t.Run("required failure stops", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Runner.WithBinaries("apt-get")
		te.Runner.Fail("dpkg -s", 1)
		te.Runner.Fail("apt-get install -y --no-install-recommends curl", 100)
		env := newEnv(t, te)

		res, err := InstallPackages(context.Background(), env, InstallPackagesOptions{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrStepRequiredFailed))
		require.NotNil(t, res)
		assert.Equal(t, runner.OutcomeFailed, res.Report.Steps[1].Outcome)
		assert.Equal(t, 6, res.Report.Count(runner.OutcomeNotRun))
	})

	t.Run("ids filter the run", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Runner.WithBinaries("apt-get")
		env := newEnv(t, te)

		res, err := InstallPackages(context.Background(), env, InstallPackagesOptions{IDs: []string{"jq", "git"}})
		require.NoError(t, err)
		require.Len(t, res.Report.Steps, 2)
		assert.Equal(t, "git", res.Report.Steps[0].ID)
		assert.Equal(t, runner.OutcomePresent, res.Report.Steps[0].Outcome)

		_, err = InstallPackages(context.Background(), env, InstallPackagesOptions{IDs: []string{"emacs"}})
		assert.True(t, errors.IsErrorCode(err, errors.ErrStepUnknown))
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		te.Runner.WithBinaries("apt-get")
		te.Runner.Fail("dpkg -s", 1)
		env := newEnv(t, te)

		res, err := InstallPackages(context.Background(), env, InstallPackagesOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 7, res.Report.Count(runner.OutcomePlanned))
		for _, cmd := range te.Runner.Commands() {
			assert.Regexp(t, `^dpkg -s `, cmd)
		}
	})
}

func TestListPackages(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env := newEnv(t, te)

	res, err := ListPackages(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, platform.Apt, res.Manager)
	require.Len(t, res.Packages, 8)
	assert.Equal(t, "nodejs", res.Packages[6].Package)
	assert.False(t, res.Packages[7].Available)
	assert.True(t, res.Packages[7].GUI)
	assert.Empty(t, te.Runner.Calls())
}

func TestSyncDotfiles(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	te.WriteDotfile("zsh/.zshrc", "export EDITOR=nvim\n")
	te.WriteHomeFile(".zshrc", "# old\n")
	env := newEnv(t, te)
	env.Config.Dotfiles.Files = []config.DotfileSpec{{Source: "zsh/.zshrc", Dest: "~/.zshrc"}}

	res, err := SyncDotfiles(context.Background(), env, SyncDotfilesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Written)
	require.NotNil(t, res.Backup)
	assert.Equal(t, "export EDITOR=nvim\n", te.ReadFile(te.HomePath(".zshrc")))

	again, err := SyncDotfiles(context.Background(), env, SyncDotfilesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, again.Summary.Unchanged)
	assert.Nil(t, again.Backup)

	t.Run("nothing configured is skipped", func(t *testing.T) {
		env.Config.Dotfiles.Files = nil
		res, err := SyncDotfiles(context.Background(), env, SyncDotfilesOptions{})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Skipped)
	})
}

func TestApplyShell(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env := newEnv(t, te)

	res, err := ApplyShell(context.Background(), env, ApplyShellOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, te.HomePath(".zshrc"), res.Results[0].Path)
	assert.Contains(t, te.ReadFile(te.HomePath(".zshrc")), `export EDITOR="nvim"`)

	res, err = ApplyShell(context.Background(), env, ApplyShellOptions{Shells: []string{"bash", "fish"}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Summary.Written)
	assert.False(t, te.Exists(te.HomePath(".bashrc")))

	res, err = ApplyShell(context.Background(), env, ApplyShellOptions{Remove: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Written)
	assert.NotContains(t, te.ReadFile(te.HomePath(".zshrc")), "devstrap")
}

func TestRenderTemplates(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env := newEnv(t, te)

	res, err := RenderTemplates(context.Background(), env, RenderTemplatesOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Skipped)

	env.Config.Templates = []config.TemplateSpec{{Name: "gitconfig", Source: "embedded:gitconfig", Dest: "~/.gitconfig"}}
	env.Config.Vars = map[string]string{"git_name": "Ada", "git_email": "ada@example.com"}

	res, err = RenderTemplates(context.Background(), env, RenderTemplatesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Written)
	assert.Contains(t, te.ReadFile(te.HomePath(".gitconfig")), "name = Ada")

	delete(env.Config.Vars, "git_email")
	res, err = RenderTemplates(context.Background(), env, RenderTemplatesOptions{})
	require.NoError(t, err)
	assert.True(t, res.HasFailures())
}

func TestScaffoldMCP(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env := newEnv(t, te)

	res, err := ScaffoldMCP(context.Background(), env, ScaffoldMCPOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Skipped)

	env.Config.MCP.Servers = []config.MCPServer{{Name: "memory", Package: "@modelcontextprotocol/server-memory", Version: "latest"}}
	res, err = ScaffoldMCP(context.Background(), env, ScaffoldMCPOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, filesync.OutcomeWritten, res.Results[0].Outcome)
	assert.Contains(t, te.ReadFile(res.Results[0].Path), `"@modelcontextprotocol/server-memory": "latest"`)
}

func TestFetchRequiresURL(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env := newEnv(t, te)

	_, err := Fetch(context.Background(), env, FetchOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	env.Config.Repo.URL = "https://example.com/dots.git"
	res, err := Fetch(context.Background(), env, FetchOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, env.Config.Repo.Dir, res.Dir)
	assert.True(t, res.DryRun)
}

func TestConfigCommands(t *testing.T) {
	te := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env := newEnv(t, te)

	res, err := InitConfig(env, InitConfigOptions{})
	require.NoError(t, err)
	assert.Equal(t, te.Paths.ConfigFile(), res.Path)
	assert.Equal(t, string(config.DefaultsContent()), te.ReadFile(res.Path))

	_, err = InitConfig(env, InitConfigOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	res, err = InitConfig(env, InitConfigOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, filesync.OutcomeUnchanged, res.Result.Outcome)

	show, err := ShowConfig(env)
	require.NoError(t, err)
	assert.Contains(t, show.TOML, "[[packages]]")
	assert.Same(t, env.Config, show.Config)
}
