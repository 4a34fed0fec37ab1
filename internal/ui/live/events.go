// Package live renders gate progress as a terminal UI using Bubble Tea.
package live

import "housegate/internal/gate"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a gate run.
	EventRunStart EventKind = iota
	// EventCheckStart signals that a check began executing.
	EventCheckStart
	// EventCheckFinish delivers a finished check result.
	EventCheckFinish
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind      EventKind
	RunID     string
	ModelName string
	CheckName string
	Result    gate.CheckResult
	RunPassed bool
}
