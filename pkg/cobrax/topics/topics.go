// Package topics adds help topics to a Cobra command tree. Topics are text or
// markdown files read from an fs.FS, usually an embedded directory, and are
// shown with "<cli> help <topic>".
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// optionPrefix marks topics that document a flag ("option-dry-run" is shown
// for "help --dry-run")
const optionPrefix = "option-"

// Topic is one help topic
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Format returns the file extension used to pick a renderer
func (t *Topic) Format() string {
	return path.Ext(t.Path)
}

// Options configures a Manager
type Options struct {
	// Extensions lists the file extensions treated as topics.
	// Defaults to .txt and .md.
	Extensions []string

	// Renderer formats topic content; defaults to PlainRenderer
	Renderer Renderer
}

// Manager holds the topics of one command tree
type Manager struct {
	fsys       fs.FS
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

// New loads every topic below fsys
func New(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		fsys:       fsys,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	if err := m.scan(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return m, nil
}

func (m *Manager) scan() error {
	if m.fsys == nil {
		return nil
	}
	return fs.WalkDir(m.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}

		content, err := fs.ReadFile(m.fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		m.topics[name] = &Topic{Name: name, Path: p, Content: string(content)}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Get looks up a topic. Flag-style names ("--dry-run") also match
// "option-dry-run".
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics[optionPrefix+name]
	return topic, ok
}

// List returns the sorted topic names
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the formatted content of topic
func (m *Manager) Render(topic *Topic) string {
	return m.renderer.Render(topic.Content, topic.Format())
}

// WriteIndex writes the list of topics, general topics first and then flag
// topics
func (m *Manager) WriteIndex(w io.Writer, cli string) {
	names := m.List()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if strings.HasPrefix(name, optionPrefix) {
			options = append(options, "--"+strings.TrimPrefix(name, optionPrefix))
		} else {
			general = append(general, name)
		}
	}

	_, _ = fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		_, _ = fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		_, _ = fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
	_, _ = fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", cli)
}

// Install replaces the help command of root with one that also knows about
// the topics of m, and makes "--help <topic>" show topics too.
func (m *Manager) Install(root *cobra.Command) {
	originalHelp := root.HelpFunc()
	cli := root.Name()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.
Simply type ` + cli + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + cli + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				originalHelp(root, nil)
				return
			}
			if args[0] == "topics" {
				m.WriteIndex(cmd.OutOrStdout(), cli)
				return
			}
			if topic, ok := m.Get(args[0]); ok {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), m.Render(topic))
				return
			}
			// commands: find the subcommand and show its usual help
			target, _, err := root.Find(args)
			if err != nil || target == nil {
				target = root
			}
			originalHelp(target, args)
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.Get(args[0]); ok {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), m.Render(topic))
				return
			}
		}
		originalHelp(cmd, args)
	})
}
