package gate

import (
	"fmt"
	"math"
)

// determinismEpsilon bounds the allowed difference between two predictions
// on identical input.
const determinismEpsilon = 1e-9

// monotonicGridPoints is the number of samples over the monotone feature's
// range.
const monotonicGridPoints = 10

// consistencyCheck verifies the model holds no hidden nondeterministic state
// and that predictions do not fall as the configured monotone feature grows.
func (e *engine) consistencyCheck() (CheckResult, error) {
	matrix := e.ds.FeatureMatrix()
	first, err := e.predictAll(matrix)
	if err != nil {
		return CheckResult{}, err
	}
	second, err := e.predictAll(matrix)
	if err != nil {
		return CheckResult{}, err
	}
	var maxDiff float64
	for i := range first {
		if diff := math.Abs(first[i] - second[i]); diff > maxDiff {
			maxDiff = diff
		}
	}
	deterministic := maxDiff <= determinismEpsilon

	violationRatio, err := e.monotonicityViolations()
	if err != nil {
		return CheckResult{}, err
	}
	monotonic := violationRatio <= e.th.MonotonicTolerance

	return CheckResult{
		Passed: deterministic && monotonic,
		Metrics: map[string]float64{
			"determinism_max_diff": maxDiff,
			"monotonicity_ratio":   violationRatio,
			"deterministic":        boolMetric(deterministic),
			"monotonic":            boolMetric(monotonic),
		},
	}, nil
}

// monotonicityViolations sweeps the monotone feature over a grid, holding
// the other features at the first row's values, and returns the fraction of
// grid steps where the prediction decreases. Small dips from model
// nonlinearity are expected; the tolerance absorbs them.
func (e *engine) monotonicityViolations() (float64, error) {
	featureIndex := e.ds.FeatureIndex(e.th.MonotonicFeature)
	if featureIndex < 0 {
		return 0, fmt.Errorf("monotonic feature %q not in dataset", e.th.MonotonicFeature)
	}

	column := e.ds.Column(featureIndex)
	low, high := column[0], column[0]
	for _, value := range column {
		low = math.Min(low, value)
		high = math.Max(high, value)
	}

	base := append([]float64(nil), e.ds.Rows[0].Features...)
	predictions := make([]float64, 0, monotonicGridPoints)
	for i := 0; i < monotonicGridPoints; i++ {
		base[featureIndex] = low + (high-low)*float64(i)/float64(monotonicGridPoints-1)
		prediction, err := e.predict(base)
		if err != nil {
			return 0, err
		}
		predictions = append(predictions, prediction)
	}

	var violations int
	for i := 1; i < len(predictions); i++ {
		if predictions[i] < predictions[i-1]-determinismEpsilon {
			violations++
		}
	}
	return float64(violations) / float64(len(predictions)-1), nil
}
