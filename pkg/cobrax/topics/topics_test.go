package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"help/dry-run.txt":        {Data: []byte("Information about dry-run mode")},
		"help/profiles.md":        {Data: []byte("# Profiles\n\nMachine profiles")},
		"help/option-yes.txt":     {Data: []byte("Answer yes to every question")},
		"help/nested/config.txxt": {Data: []byte("Configuration Guide")},
		"help/ignore.json":        {Data: []byte("{}")},
	}
}

func TestNew_DefaultExtensions(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"dry-run", "option-yes", "profiles"}, m.List())

	topic, ok := m.Get("profiles")
	require.True(t, ok)
	assert.Equal(t, "# Profiles\n\nMachine profiles", topic.Content)
	assert.Equal(t, ".md", topic.Format())
}

func TestNew_CustomExtensions(t *testing.T) {
	m, err := New(testFS(), Options{Extensions: []string{".txxt"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"config"}, m.List())
}

func TestNew_NilFS(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, m.List())
}

func TestGet_FlagStyle(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	for _, name := range []string{"--dry-run", "-dry-run", "dry-run"} {
		topic, ok := m.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, "dry-run", topic.Name)
	}

	topic, ok := m.Get("--yes")
	require.True(t, ok)
	assert.Equal(t, "option-yes", topic.Name)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestWriteIndex(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	m.WriteIndex(&buf, "devstrap")

	out := buf.String()
	assert.Contains(t, out, "General topics:\n  dry-run\n  profiles\n")
	assert.Contains(t, out, "Option topics:\n  --yes\n")
	assert.Contains(t, out, "Use 'devstrap help <topic>'")

	empty, err := New(fstest.MapFS{}, Options{})
	require.NoError(t, err)
	buf.Reset()
	empty.WriteIndex(&buf, "devstrap")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

type upperRenderer struct{}

func (upperRenderer) Render(content, format string) string {
	return strings.ToUpper(content) + format
}

func TestInstall(t *testing.T) {
	run := func(t *testing.T, args ...string) string {
		t.Helper()
		m, err := New(testFS(), Options{Renderer: upperRenderer{}})
		require.NoError(t, err)

		root := &cobra.Command{Use: "devstrap", Run: func(*cobra.Command, []string) {}}
		root.AddCommand(&cobra.Command{Use: "up", Short: "Bootstrap the machine", Run: func(*cobra.Command, []string) {}})
		m.Install(root)

		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	t.Run("topic", func(t *testing.T) {
		assert.Equal(t, "INFORMATION ABOUT DRY-RUN MODE.txt", run(t, "help", "dry-run"))
	})

	t.Run("topics index", func(t *testing.T) {
		assert.Contains(t, run(t, "help", "topics"), "Available help topics:")
	})

	t.Run("command falls back to cobra help", func(t *testing.T) {
		assert.Contains(t, run(t, "help", "up"), "Bootstrap the machine")
	})
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRenderer_NonMarkdown(t *testing.T) {
	r := &GlamourRenderer{Style: "notty"}
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}

func TestGlamourRenderer_Markdown(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 60}
	out := r.Render("# Profiles\n\nMachine profiles", ".md")
	assert.Contains(t, out, "Profiles")
	assert.Contains(t, out, "Machine profiles")
}
