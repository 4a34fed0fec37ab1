package live

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// statusLabel maps a check status to display text.
func statusLabel(status CheckStatus) string {
	switch status {
	case CheckPending:
		return "pending"
	case CheckRunning:
		return "running"
	case CheckPassed:
		return "passed"
	case CheckFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status CheckStatus, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status CheckStatus) lipgloss.Style {
	color := lipgloss.Color("246")
	switch status {
	case CheckRunning:
		color = lipgloss.Color("33")
	case CheckPassed:
		color = lipgloss.Color("42")
	case CheckFailed:
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color)
}

// formatHeadline condenses a finished check into a short metrics summary.
func formatHeadline(row CheckRow) string {
	if row.Detail != "" {
		return truncate(row.Detail, 60)
	}
	if len(row.Metrics) == 0 {
		return ""
	}
	names := make([]string, 0, len(row.Metrics))
	for name := range row.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, 3)
	for _, name := range names {
		if len(parts) == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s=%.4g", name, row.Metrics[name]))
	}
	return truncate(strings.Join(parts, " "), 60)
}

// truncate shortens text to limit runes with an ellipsis.
func truncate(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row CheckRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}
