package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the check table layout.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Check", Width: 14},
		{Title: "Status", Width: 10},
		{Title: "Elapsed", Width: 10},
		{Title: "Summary", Width: 60},
	}
}

// columnsForWidth widens the summary column to fill the terminal.
func columnsForWidth(width int) []table.Column {
	columns := defaultColumns()
	used := 0
	for _, column := range columns[:len(columns)-1] {
		used += column.Width
	}
	remaining := width - used - len(columns)*2
	if remaining > columns[len(columns)-1].Width {
		columns[len(columns)-1].Width = remaining
	}
	return columns
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.Name,
			stylizeStatus(statusLabel(row.Status), row.Status, noColor),
			formatRowDuration(row, now),
			formatHeadline(row),
		})
	}
	return rows
}
