package config

import "housegate/internal/spec"

// Default gate limits, matching the thresholds the pipeline has always
// promoted against.
const (
	DefaultMinR2Score          = 0.85
	DefaultMaxMAE              = 15000
	DefaultMaxRMSE             = 20000
	DefaultMaxMAPE             = 0.15
	DefaultMinSamples          = 100
	DefaultMaxPredictionTimeMs = 100
	DefaultMinThroughputPerSec = 100
	DefaultMaxNoiseTolerance   = 0.10
	DefaultMaxMissingTolerance = 0.15

	DefaultSignificanceLevel   = 0.05
	DefaultNoiseScale          = 0.10
	DefaultMissingFraction     = 0.10
	DefaultRobustnessTrials    = 3
	DefaultMonotonicTolerance  = 0.30
	DefaultBenchmarkIterations = 100
)

// Normalize fills unset fields with defaults. Validation runs afterwards on
// the normalized config.
func Normalize(cfg *spec.Config) {
	if cfg.Model.Name == "" {
		cfg.Model.Name = "house_price_predictor"
	}
	if cfg.Dataset.Label == "" {
		cfg.Dataset.Label = "price"
	}
	if cfg.Dataset.MonotonicFeature == "" {
		cfg.Dataset.MonotonicFeature = "sqft"
	}
	if cfg.Dataset.TailFraction == 0 {
		cfg.Dataset.TailFraction = 1
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./gate-runs"
	}
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "./registry.duckdb"
	}
	if cfg.Registry.KeepVersions == 0 {
		cfg.Registry.KeepVersions = 5
	}

	th := &cfg.Thresholds
	if th.MinR2Score == 0 {
		th.MinR2Score = DefaultMinR2Score
	}
	if th.MaxMAE == 0 {
		th.MaxMAE = DefaultMaxMAE
	}
	if th.MaxRMSE == 0 {
		th.MaxRMSE = DefaultMaxRMSE
	}
	if th.MaxMAPE == 0 {
		th.MaxMAPE = DefaultMaxMAPE
	}
	if th.MinSamples == 0 {
		th.MinSamples = DefaultMinSamples
	}
	if th.MaxPredictionTimeMs == 0 {
		th.MaxPredictionTimeMs = DefaultMaxPredictionTimeMs
	}
	if th.MinThroughputPerSec == 0 {
		th.MinThroughputPerSec = DefaultMinThroughputPerSec
	}
	if th.MaxNoiseTolerance == 0 {
		th.MaxNoiseTolerance = DefaultMaxNoiseTolerance
	}
	if th.MaxMissingTolerance == 0 {
		th.MaxMissingTolerance = DefaultMaxMissingTolerance
	}
	if th.SignificanceLevel == 0 {
		th.SignificanceLevel = DefaultSignificanceLevel
	}
	if th.NoiseScale == 0 {
		th.NoiseScale = DefaultNoiseScale
	}
	if th.MissingFraction == 0 {
		th.MissingFraction = DefaultMissingFraction
	}
	if th.RobustnessTrials == 0 {
		th.RobustnessTrials = DefaultRobustnessTrials
	}
	if th.MonotonicTolerance == 0 {
		th.MonotonicTolerance = DefaultMonotonicTolerance
	}
	if th.BenchmarkIterations == 0 {
		th.BenchmarkIterations = DefaultBenchmarkIterations
	}
}
