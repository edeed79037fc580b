package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Status is the display class of an outcome
type Status string

const (
	StatusSuccess Status = "success" // changed something
	StatusOK      Status = "ok"      // nothing to do
	StatusQueue   Status = "queue"   // dry-run, would change
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// StatusFor classifies the outcome strings of runner and filesync results
func StatusFor(outcome string, dryRun bool) Status {
	switch outcome {
	case "installed", "written":
		if dryRun {
			return StatusQueue
		}
		return StatusSuccess
	case "planned":
		return StatusQueue
	case "present", "unchanged", "up-to-date":
		return StatusOK
	case "failed":
		return StatusError
	case "skipped", "not-run":
		return StatusSkipped
	default:
		if dryRun {
			return StatusQueue
		}
		return StatusSuccess
	}
}

var indicators = map[Status]struct {
	symbol string
	style  lipgloss.Style
}{
	StatusSuccess: {"✓", SuccessStyle},
	StatusOK:      {"•", MutedStyle},
	StatusQueue:   {"○", InfoStyle},
	StatusError:   {"✗", ErrorStyle},
	StatusSkipped: {"-", MutedStyle},
}

// Indicator returns the styled status symbol
func Indicator(status Status) string {
	ind, ok := indicators[status]
	if !ok {
		return " "
	}
	return ind.style.Render(ind.symbol)
}

// Symbol returns the unstyled status symbol
func Symbol(status Status) string {
	if ind, ok := indicators[status]; ok {
		return ind.symbol
	}
	return " "
}

// StatusStyle returns the pterm style used for outcome cells in tables
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusQueue:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusOK:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StatusLine renders "<indicator> <label>  <detail>"
func StatusLine(status Status, label, detail string, styled bool) string {
	if !styled {
		if detail == "" {
			return fmt.Sprintf("%s %s", Symbol(status), label)
		}
		return fmt.Sprintf("%s %s  %s", Symbol(status), label, detail)
	}
	line := fmt.Sprintf("%s %s", Indicator(status), NormalStyle.Render(label))
	if detail != "" {
		line += "  " + MutedStyle.Render(detail)
	}
	return line
}
