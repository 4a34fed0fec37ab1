package runner

import (
	"time"

	"housegate/internal/gate"
)

// Results records one gate run: what was validated, against what data, and
// the sealed report.
type Results struct {
	RunID       string      `json:"run_id"`
	ModelName   string      `json:"model_name"`
	ModelPath   string      `json:"model_path"`
	DatasetPath string      `json:"dataset_path"`
	Samples     int         `json:"samples"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	Report      gate.Report `json:"report"`
	Summary     RunSummary  `json:"summary"`
}

// RunSummary aggregates check outcomes for quick consumption.
type RunSummary struct {
	ChecksTotal  int     `json:"checks_total"`
	ChecksPassed int     `json:"checks_passed"`
	ChecksFailed int     `json:"checks_failed"`
	PassRate     float64 `json:"pass_rate"`
	Passed       bool    `json:"passed"`
}

// summarize aggregates a gate report into a run summary.
func summarize(report gate.Report) RunSummary {
	summary := RunSummary{
		ChecksTotal: len(report.Checks),
		Passed:      report.Passed,
	}
	for _, check := range report.Checks {
		if check.Passed {
			summary.ChecksPassed++
		} else {
			summary.ChecksFailed++
		}
	}
	if summary.ChecksTotal > 0 {
		summary.PassRate = float64(summary.ChecksPassed) / float64(summary.ChecksTotal)
	}
	return summary
}
