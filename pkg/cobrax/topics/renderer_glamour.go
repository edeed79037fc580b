package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour. Other formats are
// returned unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name ("dark", "light", "notty") or a path to
	// a style file; empty or "auto" detects the terminal background
	Style string
	// Width wraps lines; 0 keeps glamour's default
	Width int
}

// NewGlamourRenderer creates a renderer with automatic style detection
func NewGlamourRenderer(width int) *GlamourRenderer {
	return &GlamourRenderer{Style: "auto", Width: width}
}

func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption

	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
