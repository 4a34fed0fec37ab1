// Package gate runs the quality-gate battery that decides whether a trained
// model may be promoted: five independent checks over a held-out dataset,
// aggregated into a single pass/fail report.
package gate

import (
	"fmt"
	"math/rand"
	"time"

	"housegate/internal/dataset"
	"housegate/internal/model"
)

// Observer receives progress callbacks while a battery runs. Implementations
// must not block; the engine calls them inline.
type Observer interface {
	CheckStarted(name string)
	CheckFinished(result CheckResult)
}

// engine carries the state of one validation run.
type engine struct {
	predictor model.Predictor
	pre       model.Preprocessor
	ds        dataset.Dataset
	th        Thresholds
	rng       *rand.Rand
	now       func() time.Time
}

// Validate runs the full battery against a model and dataset. It fails fast
// with a SizeError when the dataset is below min_samples; otherwise it always
// returns a report with exactly one result per check, in fixed order. Check
// failures, including panics and prediction errors, are recorded in the
// report rather than returned.
func Validate(predictor model.Predictor, pre model.Preprocessor, ds dataset.Dataset, th Thresholds) (Report, error) {
	return Observed(predictor, pre, ds, th, nil)
}

// Observed is Validate with per-check progress callbacks.
func Observed(predictor model.Predictor, pre model.Preprocessor, ds dataset.Dataset, th Thresholds, observer Observer) (Report, error) {
	if ds.Len() < th.MinSamples {
		return Report{}, &SizeError{Rows: ds.Len(), MinSamples: th.MinSamples}
	}
	if pre == nil {
		pre = model.Identity{}
	}

	e := &engine{
		predictor: predictor,
		pre:       pre,
		ds:        ds,
		th:        th,
		rng:       rand.New(rand.NewSource(th.Seed)),
		now:       time.Now,
	}

	battery := []struct {
		name string
		run  func() (CheckResult, error)
	}{
		{CheckPerformance, e.performanceCheck},
		{CheckStatistical, e.statisticalCheck},
		{CheckRobustness, e.robustnessCheck},
		{CheckConsistency, e.consistencyCheck},
		{CheckBenchmark, e.benchmarkCheck},
	}

	report := Report{
		Checks:     make([]CheckResult, 0, len(battery)),
		Passed:     true,
		Thresholds: th,
	}
	for _, check := range battery {
		if observer != nil {
			observer.CheckStarted(check.name)
		}
		result := capture(check.name, check.run)
		if observer != nil {
			observer.CheckFinished(result)
		}
		report.Checks = append(report.Checks, result)
		report.Passed = report.Passed && result.Passed
	}
	report.GeneratedAt = e.now().UTC()
	return report, nil
}

// capture runs one check, converting an error or panic into a failed result
// so the remaining checks still run.
func capture(name string, run func() (CheckResult, error)) CheckResult {
	result, err := func() (result CheckResult, err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("check panicked: %v", recovered)
			}
		}()
		return run()
	}()
	if err != nil {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Metrics: map[string]float64{},
			Detail:  err.Error(),
		}
	}
	result.Name = name
	return result
}

// predict applies preprocessing then prediction to one raw feature vector.
func (e *engine) predict(raw []float64) (float64, error) {
	features, err := e.pre.Transform(raw)
	if err != nil {
		return 0, fmt.Errorf("preprocess: %w", err)
	}
	prediction, err := e.predictor.Predict(features)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return prediction, nil
}

// predictAll predicts every row of a feature matrix.
func (e *engine) predictAll(matrix [][]float64) ([]float64, error) {
	predictions := make([]float64, len(matrix))
	for i, raw := range matrix {
		prediction, err := e.predict(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		predictions[i] = prediction
	}
	return predictions, nil
}

// boolMetric records a sub-test verdict as a 0/1 metric.
func boolMetric(passed bool) float64 {
	if passed {
		return 1
	}
	return 0
}
