package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadResults reads a persisted results.json.
func LoadResults(path string) (Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Results{}, fmt.Errorf("read results: %w", err)
	}
	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return Results{}, fmt.Errorf("parse results %s: %w", path, err)
	}
	return results, nil
}

// ResolveRun locates a run directory under outputDir. An empty runID selects
// the most recent run; run IDs sort chronologically by construction.
func ResolveRun(outputDir, runID string) (OutputPaths, error) {
	if runID != "" {
		paths := OutputPaths{Root: outputDir, RunID: runID}
		if _, err := os.Stat(paths.ResultsPath()); err != nil {
			return OutputPaths{}, fmt.Errorf("run %s not found under %s: %w", runID, outputDir, err)
		}
		return paths, nil
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return OutputPaths{}, fmt.Errorf("read output dir: %w", err)
	}
	var runs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := OutputPaths{Root: outputDir, RunID: entry.Name()}
		if _, err := os.Stat(candidate.ResultsPath()); err == nil {
			runs = append(runs, entry.Name())
		}
	}
	if len(runs) == 0 {
		return OutputPaths{}, fmt.Errorf("no runs found under %s", outputDir)
	}
	sort.Strings(runs)
	return OutputPaths{Root: outputDir, RunID: runs[len(runs)-1]}, nil
}

// LoadRun resolves a run and loads its results in one step.
func LoadRun(outputDir, runID string) (Results, error) {
	paths, err := ResolveRun(outputDir, runID)
	if err != nil {
		return Results{}, err
	}
	return LoadResults(paths.ResultsPath())
}
