package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output
	FormatAuto Format = iota
	// FormatTerminal renders styled output with colors
	FormatTerminal
	// FormatText renders plain text output without any styling
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
)

// Formats lists the accepted --format values
var Formats = []string{"auto", "term", "text", "json"}

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(Formats, ", "))
	}
}

type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// DetectFormat resolves FormatAuto for output: terminal when output is a
// colour-capable TTY and NO_COLOR is unset, text otherwise
func DetectFormat(output io.Writer, getenv func(string) string) Format {
	if getenv("NO_COLOR") != "" {
		return FormatText
	}

	f, ok := output.(fdWriter)
	if !ok {
		return FormatText
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return FormatText
	}

	if termenv.NewOutput(f).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
