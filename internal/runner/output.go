package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPaths describes filesystem locations for run outputs.
type OutputPaths struct {
	Root  string
	RunID string
}

// NewOutputPaths validates and constructs output paths metadata.
func NewOutputPaths(root, runID string) (OutputPaths, error) {
	if strings.TrimSpace(root) == "" {
		return OutputPaths{}, fmt.Errorf("output root is empty")
	}
	if strings.TrimSpace(runID) == "" {
		return OutputPaths{}, fmt.Errorf("run ID is empty")
	}
	return OutputPaths{Root: root, RunID: runID}, nil
}

// RunDir returns the directory for a specific run.
func (o OutputPaths) RunDir() string {
	return filepath.Join(o.Root, o.RunID)
}

// ResultsPath returns the path to results.json.
func (o OutputPaths) ResultsPath() string {
	return filepath.Join(o.RunDir(), "results.json")
}

// ReportPath returns the path to the rendered text report.
func (o OutputPaths) ReportPath() string {
	return filepath.Join(o.RunDir(), "report.txt")
}

// WriteOutputs persists results.json and the rendered report for a run.
func WriteOutputs(results Results, outputDir, rendered string) (OutputPaths, error) {
	paths, err := NewOutputPaths(outputDir, results.RunID)
	if err != nil {
		return OutputPaths{}, err
	}
	if err := os.MkdirAll(paths.RunDir(), 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create run dir: %w", err)
	}
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return OutputPaths{}, fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(paths.ResultsPath(), append(payload, '\n'), 0o644); err != nil {
		return OutputPaths{}, fmt.Errorf("write results: %w", err)
	}
	if err := os.WriteFile(paths.ReportPath(), []byte(rendered), 0o644); err != nil {
		return OutputPaths{}, fmt.Errorf("write report: %w", err)
	}
	return paths, nil
}
