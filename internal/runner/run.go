// Package runner executes gate runs end to end: it loads the artifacts and
// dataset a config points at, invokes the gate battery, and persists the
// outcome under the configured output directory.
package runner

import (
	"path/filepath"
	"strings"
	"time"

	"housegate/internal/config"
	"housegate/internal/dataset"
	"housegate/internal/gate"
	"housegate/internal/model"
	"housegate/internal/spec"
)

// RunDependencies allows injecting ID generation and clocks for a run.
type RunDependencies struct {
	RunID func() (string, error)
	Now   func() time.Time
}

// RunParams configures a run invocation. Relative config paths resolve
// against BaseDir.
type RunParams struct {
	BaseDir   string
	OutputDir string
	Observer  gate.Observer
	Deps      RunDependencies
}

// Run loads everything the config references and executes the gate battery.
// The only error paths are loading failures and the gate's fatal dataset-size
// precondition; check failures live inside the results.
func Run(cfg spec.Config, params RunParams) (Results, error) {
	predictor, err := model.LoadPredictor(resolvePath(params.BaseDir, cfg.Model.Path))
	if err != nil {
		return Results{}, err
	}
	preprocessor, err := model.LoadPreprocessor(resolveOptionalPath(params.BaseDir, cfg.Model.PreprocessorPath))
	if err != nil {
		return Results{}, err
	}
	ds, err := dataset.Load(resolvePath(params.BaseDir, cfg.Dataset.Path), cfg.Dataset.Label)
	if err != nil {
		return Results{}, err
	}
	ds = ds.Tail(cfg.Dataset.TailFraction)

	runID, err := ensureRunID(params.Deps.RunID)
	if err != nil {
		return Results{}, err
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}

	startedAt := now().UTC()
	report, err := gate.Observed(predictor, preprocessor, ds, config.Thresholds(cfg), params.Observer)
	if err != nil {
		return Results{}, err
	}
	finishedAt := now().UTC()

	return Results{
		RunID:       runID,
		ModelName:   cfg.Model.Name,
		ModelPath:   cfg.Model.Path,
		DatasetPath: cfg.Dataset.Path,
		Samples:     ds.Len(),
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		Report:      report,
		Summary:     summarize(report),
	}, nil
}

// RunAndWrite executes a run and persists its outputs. The render callback
// produces the human-readable report body.
func RunAndWrite(cfg spec.Config, params RunParams, render func(Results) string) (Results, OutputPaths, error) {
	results, err := Run(cfg, params)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	outputDir := params.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = cfg.Output.Dir
	}
	outputDir = resolveOptionalPath(params.BaseDir, outputDir)
	rendered := ""
	if render != nil {
		rendered = render(results)
	}
	paths, err := WriteOutputs(results, outputDir, rendered)
	if err != nil {
		return results, OutputPaths{}, err
	}
	return results, paths, nil
}

// ensureRunID uses the provided generator or falls back to NewRunID.
func ensureRunID(generator func() (string, error)) (string, error) {
	if generator != nil {
		return generator()
	}
	return NewRunID()
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func resolveOptionalPath(baseDir, path string) string {
	if path == "" {
		return ""
	}
	return resolvePath(baseDir, path)
}
