package gate

import (
	"math"

	"housegate/internal/stats"
)

// robustnessCheck measures relative R² degradation under two perturbations:
// Gaussian noise scaled to each feature's spread, and randomly nulled cells
// imputed with the column median. Each perturbation runs over several seeded
// trials and the drops are averaged.
func (e *engine) robustnessCheck() (CheckResult, error) {
	truth := e.ds.Labels()
	baseline, err := e.predictAll(e.ds.FeatureMatrix())
	if err != nil {
		return CheckResult{}, err
	}
	baselineR2 := stats.RSquared(truth, baseline)

	trials := e.th.RobustnessTrials
	if trials < 1 {
		trials = 1
	}

	featureCount := len(e.ds.FeatureNames)
	stddevs := make([]float64, featureCount)
	medians := make([]float64, featureCount)
	for i := 0; i < featureCount; i++ {
		stddevs[i] = e.ds.ColumnStdDev(i)
		medians[i] = e.ds.ColumnMedian(i)
	}

	var noiseR2Sum, missingR2Sum float64
	for trial := 0; trial < trials; trial++ {
		noisy := e.ds.FeatureMatrix()
		for _, row := range noisy {
			for col := range row {
				row[col] += e.rng.NormFloat64() * stddevs[col] * e.th.NoiseScale
			}
		}
		predictions, err := e.predictAll(noisy)
		if err != nil {
			return CheckResult{}, err
		}
		noiseR2Sum += stats.RSquared(truth, predictions)

		missing := e.ds.FeatureMatrix()
		cells := len(missing) * featureCount
		for i := 0; i < int(float64(cells)*e.th.MissingFraction); i++ {
			row := e.rng.Intn(len(missing))
			col := e.rng.Intn(featureCount)
			missing[row][col] = math.NaN()
		}
		for _, row := range missing {
			for col, value := range row {
				if math.IsNaN(value) {
					row[col] = medians[col]
				}
			}
		}
		predictions, err = e.predictAll(missing)
		if err != nil {
			return CheckResult{}, err
		}
		missingR2Sum += stats.RSquared(truth, predictions)
	}

	noiseR2 := noiseR2Sum / float64(trials)
	missingR2 := missingR2Sum / float64(trials)
	noiseDrop := relativeDrop(baselineR2, noiseR2)
	missingDrop := relativeDrop(baselineR2, missingR2)

	noiseRobust := noiseDrop <= e.th.MaxNoiseTolerance
	missingRobust := missingDrop <= e.th.MaxMissingTolerance

	return CheckResult{
		Passed: noiseRobust && missingRobust,
		Metrics: map[string]float64{
			"baseline_r2":    baselineR2,
			"noise_r2":       noiseR2,
			"noise_drop":     noiseDrop,
			"missing_r2":     missingR2,
			"missing_drop":   missingDrop,
			"trials":         float64(trials),
			"noise_robust":   boolMetric(noiseRobust),
			"missing_robust": boolMetric(missingRobust),
		},
	}, nil
}

// relativeDrop returns the fractional decrease from baseline to degraded.
// A non-positive baseline makes the ratio meaningless; any decrease then
// counts in full.
func relativeDrop(baseline, degraded float64) float64 {
	drop := baseline - degraded
	if drop <= 0 {
		return 0
	}
	if baseline <= 0 {
		return drop
	}
	return drop / baseline
}
