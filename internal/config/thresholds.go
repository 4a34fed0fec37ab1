package config

import (
	"housegate/internal/gate"
	"housegate/internal/spec"
)

// Thresholds maps a normalized config onto the gate's threshold set.
func Thresholds(cfg spec.Config) gate.Thresholds {
	th := cfg.Thresholds
	return gate.Thresholds{
		MinR2Score:          th.MinR2Score,
		MaxMAE:              th.MaxMAE,
		MaxRMSE:             th.MaxRMSE,
		MaxMAPE:             th.MaxMAPE,
		MinSamples:          th.MinSamples,
		MaxPredictionTimeMs: th.MaxPredictionTimeMs,
		MinThroughputPerSec: th.MinThroughputPerSec,
		MaxNoiseTolerance:   th.MaxNoiseTolerance,
		MaxMissingTolerance: th.MaxMissingTolerance,
		SignificanceLevel:   th.SignificanceLevel,
		NoiseScale:          th.NoiseScale,
		MissingFraction:     th.MissingFraction,
		RobustnessTrials:    th.RobustnessTrials,
		MonotonicFeature:    cfg.Dataset.MonotonicFeature,
		MonotonicTolerance:  th.MonotonicTolerance,
		BenchmarkIterations: th.BenchmarkIterations,
		Seed:                th.Seed,
	}
}
