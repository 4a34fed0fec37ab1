package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"housegate/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a normalized config for correctness and referenced files.
// Relative paths are resolved against baseDir.
func Validate(cfg *spec.Config, baseDir string) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}
	if baseDir == "" {
		baseDir = "."
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if strings.TrimSpace(cfg.Model.Path) == "" {
		add("model.path", "is required")
	} else {
		checkFile(add, "model.path", baseDir, cfg.Model.Path)
	}
	if cfg.Model.PreprocessorPath != "" {
		checkFile(add, "model.preprocessor_path", baseDir, cfg.Model.PreprocessorPath)
	}

	if strings.TrimSpace(cfg.Dataset.Path) == "" {
		add("dataset.path", "is required")
	} else {
		checkFile(add, "dataset.path", baseDir, cfg.Dataset.Path)
	}
	if strings.TrimSpace(cfg.Dataset.Label) == "" {
		add("dataset.label", "is required")
	}
	if strings.TrimSpace(cfg.Dataset.MonotonicFeature) == "" {
		add("dataset.monotonic_feature", "is required")
	}
	if cfg.Dataset.TailFraction <= 0 || cfg.Dataset.TailFraction > 1 {
		add("dataset.tail_fraction", "must be in (0, 1]")
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		add("output.dir", "is required")
	}

	th := cfg.Thresholds
	if th.MinR2Score <= 0 || th.MinR2Score > 1 {
		add("thresholds.min_r2_score", "must be in (0, 1]")
	}
	if th.MaxMAE <= 0 {
		add("thresholds.max_mae", "must be > 0")
	}
	if th.MaxRMSE <= 0 {
		add("thresholds.max_rmse", "must be > 0")
	}
	if th.MaxMAPE <= 0 {
		add("thresholds.max_mape", "must be > 0")
	}
	if th.MinSamples < 1 {
		add("thresholds.min_samples", "must be >= 1")
	}
	if th.MaxPredictionTimeMs <= 0 {
		add("thresholds.max_prediction_time_ms", "must be > 0")
	}
	if th.MinThroughputPerSec <= 0 {
		add("thresholds.min_throughput_samples_per_sec", "must be > 0")
	}
	if th.MaxNoiseTolerance < 0 || th.MaxNoiseTolerance > 1 {
		add("thresholds.max_noise_tolerance", "must be in [0, 1]")
	}
	if th.MaxMissingTolerance < 0 || th.MaxMissingTolerance > 1 {
		add("thresholds.max_missing_tolerance", "must be in [0, 1]")
	}
	if th.SignificanceLevel <= 0 || th.SignificanceLevel >= 1 {
		add("thresholds.significance_level", "must be in (0, 1)")
	}
	if th.NoiseScale <= 0 || th.NoiseScale > 1 {
		add("thresholds.noise_scale", "must be in (0, 1]")
	}
	if th.MissingFraction <= 0 || th.MissingFraction >= 1 {
		add("thresholds.missing_fraction", "must be in (0, 1)")
	}
	if th.RobustnessTrials < 1 {
		add("thresholds.robustness_trials", "must be >= 1")
	}
	if th.MonotonicTolerance < 0 || th.MonotonicTolerance > 1 {
		add("thresholds.monotonic_tolerance", "must be in [0, 1]")
	}
	if th.BenchmarkIterations < 1 {
		add("thresholds.benchmark_iterations", "must be >= 1")
	}

	if strings.TrimSpace(cfg.Registry.Path) == "" {
		add("registry.path", "is required")
	}
	if cfg.Registry.KeepVersions < 1 {
		add("registry.keep_versions", "must be >= 1")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// checkFile verifies a referenced path exists and is a regular file.
func checkFile(add func(field, message string), field, baseDir, path string) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		add(field, fmt.Sprintf("path not found at %q", path))
		return
	}
	if info.IsDir() {
		add(field, fmt.Sprintf("path %q is a directory", path))
	}
}
