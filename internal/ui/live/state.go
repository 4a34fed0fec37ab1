package live

import (
	"time"

	"housegate/internal/gate"
)

// CheckStatus is the UI lifecycle of one gate check.
type CheckStatus int

const (
	CheckPending CheckStatus = iota
	CheckRunning
	CheckPassed
	CheckFailed
)

// CheckRow holds UI state for a single check.
type CheckRow struct {
	Name       string
	Status     CheckStatus
	Detail     string
	Metrics    map[string]float64
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates row counts by status bucket.
type StatusCounts struct {
	Pending int
	Running int
	Passed  int
	Failed  int
}

// State captures the live UI state for a gate run.
type State struct {
	RunID     string
	ModelName string
	StartedAt time.Time
	Finished  bool
	RunPassed bool
	LastEvent string
	Rows      []CheckRow
	Counts    StatusCounts
}

// NewState seeds one pending row per battery check.
func NewState() State {
	rows := make([]CheckRow, len(gate.CheckNames))
	for i, name := range gate.CheckNames {
		rows[i] = CheckRow{Name: name, Status: CheckPending}
	}
	state := State{Rows: rows}
	state.Counts = recount(rows)
	return state
}
