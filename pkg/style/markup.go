package style

import (
	"regexp"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

var tagPattern = regexp.MustCompile(`\[([a-z_]+)\]([^\[]*)\[/([a-z_]+)\]`)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	styles map[string]lipgloss.Style
	plain  bool
}

// NewMarkupParser creates a parser with the default tags. A plain parser
// strips tags without styling.
func NewMarkupParser(plain bool) *MarkupParser {
	return &MarkupParser{
		plain: plain,
		styles: map[string]lipgloss.Style{
			"title":     TitleStyle,
			"success":   SuccessStyle,
			"error":     ErrorStyle,
			"warning":   WarningStyle,
			"info":      InfoStyle,
			"code":      CodeStyle,
			"path":      PathStyle,
			"muted":     MutedStyle,
			"bold":      lipgloss.NewStyle().Bold(true),
			"packages":  PackagesStyle,
			"dotfiles":  DotfilesStyle,
			"shell":     ShellStyle,
			"templates": TemplatesStyle,
		},
	}
}

// Tags lists the known tag names
func (p *MarkupParser) Tags() []string {
	tags := make([]string, 0, len(p.styles))
	for tag := range p.styles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Render replaces known tags, innermost first. Unknown or mismatched tags are
// left as they are.
func (p *MarkupParser) Render(text string) string {
	for {
		changed := false
		text = tagPattern.ReplaceAllStringFunc(text, func(match string) string {
			m := tagPattern.FindStringSubmatch(match)
			style, ok := p.styles[m[1]]
			if !ok || m[1] != m[3] {
				return match
			}
			changed = true
			if p.plain {
				return m[2]
			}
			return style.Render(m[2])
		})
		if !changed {
			return text
		}
	}
}
