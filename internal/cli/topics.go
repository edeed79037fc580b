package cli

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/devstrap/pkg/cobrax/topics"
	"github.com/arthur-debert/devstrap/pkg/ui"
)

//go:embed topics/*.md
var topicFiles embed.FS

// topicRenderer uses glamour when the output resolves to a terminal
type topicRenderer struct {
	opts *globalOptions
	deps Deps
}

func (r *topicRenderer) Render(content string, format string) string {
	f, err := ui.ParseFormat(r.opts.format)
	if err != nil {
		f = ui.FormatAuto
	}
	if f == ui.FormatAuto {
		f = ui.DetectFormat(r.deps.Stdout, r.deps.Getenv)
	}
	if f != ui.FormatTerminal {
		return (&topics.PlainRenderer{}).Render(content, format)
	}
	return topics.NewGlamourRenderer(0).Render(content, format)
}

func newTopics(opts *globalOptions, deps Deps) (*topics.Manager, error) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return nil, err
	}
	return topics.New(sub, topics.Options{
		Extensions: []string{".md"},
		Renderer:   &topicRenderer{opts: opts, deps: deps},
	})
}
