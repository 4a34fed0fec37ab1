package live

import (
	"time"
)

// Reduce applies a UI event to the current state.
func Reduce(state State, event Event, now time.Time) State {
	switch event.Kind {
	case EventRunStart:
		state.RunID = event.RunID
		state.ModelName = event.ModelName
		if state.StartedAt.IsZero() {
			state.StartedAt = now
		}
		state.LastEvent = "run started"
	case EventCheckStart:
		state = setRow(state, event.CheckName, func(row CheckRow) CheckRow {
			row.Status = CheckRunning
			row.StartedAt = now
			return row
		})
		state.LastEvent = event.CheckName + " running"
	case EventCheckFinish:
		state = setRow(state, event.Result.Name, func(row CheckRow) CheckRow {
			if event.Result.Passed {
				row.Status = CheckPassed
			} else {
				row.Status = CheckFailed
			}
			row.Detail = event.Result.Detail
			row.Metrics = event.Result.Metrics
			row.FinishedAt = now
			return row
		})
		state.LastEvent = event.Result.Name + " " + verdictLabel(event.Result.Passed)
	case EventRunEnd:
		state.Finished = true
		state.RunPassed = event.RunPassed
		state.LastEvent = "gate " + verdictLabel(event.RunPassed)
	}
	state.Counts = recount(state.Rows)
	return state
}

// setRow updates the row with the given check name, appending one if the
// battery reports a check the state has not seen.
func setRow(state State, name string, update func(CheckRow) CheckRow) State {
	rows := make([]CheckRow, len(state.Rows))
	copy(rows, state.Rows)
	for i, row := range rows {
		if row.Name == name {
			rows[i] = update(row)
			state.Rows = rows
			return state
		}
	}
	state.Rows = append(rows, update(CheckRow{Name: name, Status: CheckPending}))
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []CheckRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case CheckPending:
			counts.Pending++
		case CheckRunning:
			counts.Running++
		case CheckPassed:
			counts.Passed++
		case CheckFailed:
			counts.Failed++
		}
	}
	return counts
}

func verdictLabel(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
