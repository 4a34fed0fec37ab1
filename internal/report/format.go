package report

import (
	"fmt"
	"strings"
	"time"
)

// formatPassRate returns a percentage string for report output.
func formatPassRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// formatMetric renders a metric value with precision appropriate to its name.
func formatMetric(name string, value float64) string {
	switch {
	case isCountMetric(name):
		return fmt.Sprintf("%d", int64(value))
	case isFlagMetric(name):
		if value != 0 {
			return "yes"
		}
		return "no"
	case strings.HasSuffix(name, "_ms"):
		return fmt.Sprintf("%.3f", value)
	case strings.HasPrefix(name, "p_") || strings.HasSuffix(name, "_p"):
		return fmt.Sprintf("%.4f", value)
	case strings.Contains(name, "r2") || strings.Contains(name, "ratio") ||
		strings.Contains(name, "drop") || strings.Contains(name, "rate"):
		return fmt.Sprintf("%.4f", value)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}

// isCountMetric reports whether a metric is an integer count.
func isCountMetric(name string) bool {
	switch name {
	case "n_samples", "trials", "iterations":
		return true
	}
	return false
}

// isFlagMetric reports whether a metric encodes a boolean outcome.
func isFlagMetric(name string) bool {
	switch name {
	case "residuals_normal", "homoscedastic", "no_autocorrelation",
		"noise_robust", "missing_robust", "deterministic", "monotonic",
		"latency_ok", "throughput_ok":
		return true
	}
	return false
}

// formatElapsed renders a run duration for display.
func formatElapsed(start, end time.Time) string {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return ""
	}
	return end.Sub(start).Round(time.Millisecond).String()
}
