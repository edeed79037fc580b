package style

import (
	"github.com/pterm/pterm"
)

// Table renders rows under header. Styled tables are boxed and coloured;
// plain ones are aligned columns only.
func Table(header []string, rows [][]string, styled bool) (string, error) {
	data := pterm.TableData{header}
	data = append(data, rows...)

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if styled {
		table = table.WithBoxed().WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold))
	} else {
		table = table.
			WithStyle(pterm.NewStyle()).
			WithHeaderStyle(pterm.NewStyle()).
			WithSeparator("  ").
			WithSeparatorStyle(pterm.NewStyle())
	}
	return table.Srender()
}
