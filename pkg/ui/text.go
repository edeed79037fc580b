package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/style"
)

// textRenderer writes human readable output, styled with lipgloss and pterm
// when styled is set
type textRenderer struct {
	out    io.Writer
	styled bool
	home   string
	markup *style.MarkupParser
	err    error
}

func newTextRenderer(out io.Writer, styled bool, home string) *textRenderer {
	return &textRenderer{
		out:    out,
		styled: styled,
		home:   home,
		markup: style.NewMarkupParser(!styled),
	}
}

// printf writes one line, keeping the first write error
func (r *textRenderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *textRenderer) flush() error {
	err := r.err
	r.err = nil
	return err
}

func (r *textRenderer) heading(title string, phase string) {
	if r.styled {
		r.printf("%s", style.PhaseStyle(phase).Render(title))
		return
	}
	r.printf("%s", title)
}

func (r *textRenderer) muted(s string) string {
	if r.styled {
		return style.MutedStyle.Render(s)
	}
	return s
}

func (r *textRenderer) status(status style.Status, label, detail string) {
	r.printf("  %s", style.StatusLine(status, label, detail, r.styled))
}

func (r *textRenderer) table(header []string, rows [][]string) {
	if r.err != nil {
		return
	}
	out, err := style.Table(header, rows, r.styled)
	if err != nil {
		r.err = err
		return
	}
	_, r.err = io.WriteString(r.out, strings.TrimRight(out, "\n")+"\n")
}

func (r *textRenderer) path(p string) string {
	if r.home == "" {
		return p
	}
	return paths.ContractHome(r.home, p)
}

func (r *textRenderer) RenderResult(result interface{}) error {
	r.render(result)
	return r.flush()
}

func (r *textRenderer) RenderError(err error) error {
	msg := err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		// the [CODE] prefix is for logs and JSON
		msg = strings.TrimPrefix(msg, "["+string(code)+"] ")
	}
	if r.styled {
		r.printf("%s %s", style.ErrorStyle.Render("Error:"), msg)
	} else {
		r.printf("Error: %s", msg)
	}
	return r.flush()
}

func (r *textRenderer) RenderMessage(msg string) error {
	r.printf("%s", r.markup.Render(msg))
	return r.flush()
}
