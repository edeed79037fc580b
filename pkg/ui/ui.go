// Package ui renders command results as styled terminal output, plain text
// or JSON.
package ui

import (
	"fmt"
	"io"
	"os"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a command result
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message. Terminal and text renderers
	// understand [tag]...[/tag] markup.
	RenderMessage(msg string) error
}

// Options configures a renderer
type Options struct {
	// Home is shown as ~ in paths
	Home string
	// Getenv is used by format detection; defaults to os.Getenv
	Getenv func(string) string
}

// NewRenderer creates a renderer for format. FormatAuto is resolved against
// output with DetectFormat.
func NewRenderer(format Format, output io.Writer, opts Options) (Renderer, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output, opts.Getenv), output, opts)
	case FormatTerminal:
		return newTextRenderer(output, true, opts.Home), nil
	case FormatText:
		return newTextRenderer(output, false, opts.Home), nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
