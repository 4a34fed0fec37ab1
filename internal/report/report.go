// Package report renders persisted gate runs for humans.
package report

import (
	"sort"
	"strings"

	"housegate/internal/runner"
)

// RenderText renders a run report as plain text, optionally styled.
func RenderText(results runner.Results, palette Palette) string {
	var b strings.Builder

	header := "Gate run " + results.RunID
	if results.ModelName != "" {
		header += " | Model: " + results.ModelName
	}
	b.WriteString(palette.header(header))
	b.WriteString("\n")

	if results.ModelPath != "" {
		b.WriteString(palette.muted("Artifact: " + results.ModelPath))
		b.WriteString("\n")
	}
	if results.DatasetPath != "" {
		line := "Dataset: " + results.DatasetPath
		if results.Samples > 0 {
			line += " (" + formatMetric("n_samples", float64(results.Samples)) + " samples)"
		}
		b.WriteString(palette.muted(line))
		b.WriteString("\n")
	}
	if elapsed := formatElapsed(results.StartedAt, results.FinishedAt); elapsed != "" {
		b.WriteString(palette.muted("Elapsed: " + elapsed))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, check := range results.Report.Checks {
		writeCheck(&b, check.Name, check.Passed, check.Detail, check.Metrics, palette)
	}

	summary := results.Summary
	line := "Checks passed: " + formatMetric("n_samples", float64(summary.ChecksPassed)) +
		"/" + formatMetric("n_samples", float64(summary.ChecksTotal)) +
		" (" + formatPassRate(summary.PassRate) + ")"
	b.WriteString(line)
	b.WriteString("\n")
	if summary.Passed {
		b.WriteString(palette.pass("GATE PASSED"))
	} else {
		b.WriteString(palette.fail("GATE FAILED"))
	}
	b.WriteString("\n")
	return b.String()
}

// writeCheck renders one check block with its metrics sorted by name.
func writeCheck(b *strings.Builder, name string, passed bool, detail string, metrics map[string]float64, palette Palette) {
	verdict := palette.fail("[FAIL]")
	if passed {
		verdict = palette.pass("[PASS]")
	}
	b.WriteString(verdict + " " + name + "\n")
	if detail != "" {
		b.WriteString(palette.muted("       " + detail))
		b.WriteString("\n")
	}
	names := make([]string, 0, len(metrics))
	for metric := range metrics {
		names = append(names, metric)
	}
	sort.Strings(names)
	for _, metric := range names {
		b.WriteString(palette.muted("       " + metric + ": " + formatMetric(metric, metrics[metric])))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
