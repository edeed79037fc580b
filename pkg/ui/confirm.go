package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/arthur-debert/devstrap/pkg/logging"
)

// ConsoleDialog asks yes/no questions on the console
type ConsoleDialog struct {
	In  io.Reader
	Out io.Writer
	// AssumeYes answers every question with yes (--yes)
	AssumeYes bool
	// Interactive is false when stdin is not a terminal; questions are then
	// answered with no
	Interactive bool
}

// NewConsoleDialog creates a dialog reading answers from in. The dialog is
// interactive only when in is a terminal.
func NewConsoleDialog(in io.Reader, out io.Writer, assumeYes bool) *ConsoleDialog {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &ConsoleDialog{
		In:          in,
		Out:         out,
		AssumeYes:   assumeYes,
		Interactive: interactive,
	}
}

// Confirm asks question and reports whether the user answered yes. The
// default answer is no.
func (d *ConsoleDialog) Confirm(question string) bool {
	logger := logging.GetLogger("ui.confirm")

	if d.AssumeYes {
		logger.Debug().Str("question", question).Msg("Assuming yes")
		return true
	}
	if !d.Interactive {
		logger.Warn().Str("question", question).Msg("Not a terminal, answering no (use --yes to confirm)")
		return false
	}

	_, _ = fmt.Fprintf(d.Out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(d.In).ReadString('\n')
	if err != nil && err != io.EOF {
		logger.Warn().Err(err).Msg("Failed to read answer")
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
