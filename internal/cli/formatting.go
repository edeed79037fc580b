package cli

import (
	"strings"
	"text/template"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// styledHelp is set when help output goes to a colour terminal
var styledHelp bool

func formatBold(s string) string {
	if !styledHelp {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds the formatting functions used by the usage
// template
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}
