package registry

import (
	"fmt"
	"strings"
)

// Comparison describes which of two versions wins on a metric.
type Comparison struct {
	Metric         string  `json:"metric"`
	CandidateValue float64 `json:"candidate_value"`
	BaselineValue  float64 `json:"baseline_value"`
	Delta          float64 `json:"delta"`
	CandidateWins  bool    `json:"candidate_wins"`
	Tie            bool    `json:"tie"`
}

// lowerIsBetter reports the improvement direction for a metric.
func lowerIsBetter(metric string) (bool, error) {
	switch strings.ToLower(metric) {
	case "mae", "rmse", "mse", "mape":
		return true, nil
	case "r2_score", "r2":
		return false, nil
	}
	return false, fmt.Errorf("unknown metric %q for comparison", metric)
}

// Compare pits a candidate version against a baseline on one metric.
func Compare(candidate, baseline Version, metric string) (Comparison, error) {
	lower, err := lowerIsBetter(metric)
	if err != nil {
		return Comparison{}, err
	}
	candidateValue, ok := candidate.Metrics[metric]
	if !ok {
		return Comparison{}, fmt.Errorf("version %s has no metric %q", candidate.ID, metric)
	}
	baselineValue, ok := baseline.Metrics[metric]
	if !ok {
		return Comparison{}, fmt.Errorf("version %s has no metric %q", baseline.ID, metric)
	}
	comparison := Comparison{
		Metric:         metric,
		CandidateValue: candidateValue,
		BaselineValue:  baselineValue,
		Delta:          candidateValue - baselineValue,
	}
	switch {
	case candidateValue == baselineValue:
		comparison.Tie = true
	case lower:
		comparison.CandidateWins = candidateValue < baselineValue
	default:
		comparison.CandidateWins = candidateValue > baselineValue
	}
	return comparison, nil
}
