package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Background(SurfaceColor).
			Padding(0, 1)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Phase styles
var (
	PackagesStyle = lipgloss.NewStyle().
			Foreground(PackagesColor).
			Bold(true)

	DotfilesStyle = lipgloss.NewStyle().
			Foreground(DotfilesColor).
			Bold(true)

	ShellStyle = lipgloss.NewStyle().
			Foreground(ShellColor).
			Bold(true)

	TemplatesStyle = lipgloss.NewStyle().
			Foreground(TemplatesColor).
			Bold(true)
)

// PhaseStyle returns the heading style for a phase of `devstrap up`
func PhaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "packages":
		return PackagesStyle
	case "dotfiles", "backup", "restore":
		return DotfilesStyle
	case "shell":
		return ShellStyle
	case "templates", "mcp":
		return TemplatesStyle
	default:
		return SubtitleStyle
	}
}
