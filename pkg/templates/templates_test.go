package templates

import (
	"testing"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/platform"
	"github.com/arthur-debert/devstrap/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(env *testutil.TestEnvironment, info platform.Info) Data {
	return Data{
		Vars:     map[string]string{"git_name": "Ada Lovelace", "git_email": "ada@example.com"},
		Platform: info,
		Home:     env.HomeDir,
	}
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"editorconfig", "gitconfig"}, Builtins())
}

func TestRenderEmbeddedGitconfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	r := New(filesync.NewWriter(env.FS, false), env.DotfilesRoot, env.HomeDir)

	t.Run("darwin uses keychain", func(t *testing.T) {
		out, err := r.Render(config.TemplateSpec{Name: "gitconfig", Source: "embedded:gitconfig"},
			testData(env, platform.Info{OS: platform.OSDarwin}))
		require.NoError(t, err)
		assert.Contains(t, string(out), "name = Ada Lovelace")
		assert.Contains(t, string(out), "email = ada@example.com")
		assert.Contains(t, string(out), "defaultBranch = main")
		assert.Contains(t, string(out), "helper = osxkeychain")
		assert.Contains(t, string(out), "excludesfile = "+env.HomeDir+"/.gitignore_global")
	})

	t.Run("wsl uses windows credential manager", func(t *testing.T) {
		out, err := r.Render(config.TemplateSpec{Source: "embedded:gitconfig"},
			testData(env, platform.Info{OS: platform.OSLinux, DistroID: "ubuntu", WSL: true}))
		require.NoError(t, err)
		assert.Contains(t, string(out), "git-credential-manager.exe")
		assert.NotContains(t, string(out), "osxkeychain")
	})

	t.Run("plain linux has no credential helper", func(t *testing.T) {
		out, err := r.Render(config.TemplateSpec{Source: "embedded:gitconfig"},
			testData(env, platform.Info{OS: platform.OSLinux}))
		require.NoError(t, err)
		assert.NotContains(t, string(out), "[credential]")
	})

	t.Run("optional vars fall back to defaults", func(t *testing.T) {
		data := testData(env, platform.Info{OS: platform.OSLinux})
		data.Vars["editor"] = "nvim"
		out, err := r.Render(config.TemplateSpec{Source: "embedded:gitconfig"}, data)
		require.NoError(t, err)
		assert.Contains(t, string(out), "editor = nvim")
	})
}

func TestRenderErrors(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	r := New(filesync.NewWriter(env.FS, false), env.DotfilesRoot, env.HomeDir)

	tests := []struct {
		name     string
		source   string
		content  string
		data     Data
		wantCode errors.ErrorCode
	}{
		{
			name:     "missing var",
			source:   "embedded:gitconfig",
			data:     Data{Vars: map[string]string{"git_name": "Ada"}},
			wantCode: errors.ErrTemplateRender,
		},
		{
			name:     "nil vars",
			source:   "embedded:gitconfig",
			wantCode: errors.ErrTemplateRender,
		},
		{
			name:     "unknown builtin",
			source:   "embedded:vimrc",
			wantCode: errors.ErrNotFound,
		},
		{
			name:     "bad syntax",
			source:   "broken.tmpl",
			content:  "{{ .Vars.x ",
			wantCode: errors.ErrTemplateParse,
		},
		{
			name:     "missing file",
			source:   "absent.tmpl",
			wantCode: errors.ErrFileRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.content != "" {
				env.WriteDotfile(tt.source, tt.content)
			}
			_, err := r.Render(config.TemplateSpec{Name: tt.name, Source: tt.source}, tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestApply(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteDotfile("templates/npmrc.tmpl", "prefix={{ .Home }}/.npm-global\n")
	r := New(filesync.NewWriter(env.FS, false), env.DotfilesRoot, env.HomeDir)

	specs := []config.TemplateSpec{
		{Name: "gitconfig", Source: "embedded:gitconfig", Dest: "~/.gitconfig"},
		{Name: "npmrc", Source: "templates/npmrc.tmpl", Dest: ".npmrc", Mode: "0600"},
		{Name: "broken", Source: "embedded:nope", Dest: "~/.nope"},
		{Name: "badmode", Source: "embedded:editorconfig", Dest: "~/.editorconfig", Mode: "rw"},
	}
	data := testData(env, platform.Info{OS: platform.OSLinux})

	results := r.Apply(specs, data)
	require.Len(t, results, 4)

	assert.Equal(t, filesync.OutcomeWritten, results[0].Outcome)
	assert.Equal(t, env.HomePath(".gitconfig"), results[0].Path)

	assert.Equal(t, filesync.OutcomeWritten, results[1].Outcome)
	assert.Equal(t, "prefix="+env.HomeDir+"/.npm-global\n", env.ReadFile(env.HomePath(".npmrc")))
	info, err := env.FS.Stat(env.HomePath(".npmrc"))
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	assert.Equal(t, filesync.OutcomeFailed, results[2].Outcome)
	assert.False(t, env.Exists(env.HomePath(".nope")))

	assert.Equal(t, filesync.OutcomeFailed, results[3].Outcome)
	assert.True(t, errors.IsErrorCode(results[3].Err, errors.ErrInvalidInput))

	t.Run("second run is unchanged", func(t *testing.T) {
		again := r.Apply(specs[:2], data)
		for _, res := range again {
			assert.Equal(t, filesync.OutcomeUnchanged, res.Outcome, res.Path)
		}
	})
}

func TestApplyDryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	r := New(filesync.NewWriter(env.FS, true), env.DotfilesRoot, env.HomeDir)

	results := r.Apply([]config.TemplateSpec{
		{Name: "editorconfig", Source: "embedded:editorconfig", Dest: "~/.editorconfig"},
	}, testData(env, platform.Info{OS: platform.OSLinux}))

	require.Len(t, results, 1)
	assert.Equal(t, filesync.OutcomeWritten, results[0].Outcome)
	assert.True(t, results[0].DryRun)
	assert.False(t, env.Exists(env.HomePath(".editorconfig")))
}
