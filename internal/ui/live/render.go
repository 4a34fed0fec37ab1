package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	elapsed := ""
	if !state.StartedAt.IsZero() {
		elapsed = now.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
	}
	line := "Gate run " + state.RunID
	if state.ModelName != "" {
		line += " | Model: " + state.ModelName
	}
	if elapsed != "" {
		line += " | Elapsed: " + elapsed
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := stylize("Pending: "+strconv.Itoa(counts.Pending)+
		" Running: "+strconv.Itoa(counts.Running)+
		" Passed: "+strconv.Itoa(counts.Passed)+
		" Failed: "+strconv.Itoa(counts.Failed), noColor, lipgloss.Color("242"))
	if state.Finished {
		if state.RunPassed {
			line += " | " + stylize("GATE PASSED", noColor, lipgloss.Color("42"))
		} else {
			line += " | " + stylize("GATE FAILED", noColor, lipgloss.Color("196"))
		}
	}
	return line
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
