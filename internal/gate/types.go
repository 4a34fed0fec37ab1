package gate

import (
	"fmt"
	"time"
)

// Check names, in execution order.
const (
	CheckPerformance = "performance"
	CheckStatistical = "statistical"
	CheckRobustness  = "robustness"
	CheckConsistency = "consistency"
	CheckBenchmark   = "benchmark"
)

// CheckNames lists the fixed battery in execution order.
var CheckNames = []string{
	CheckPerformance,
	CheckStatistical,
	CheckRobustness,
	CheckConsistency,
	CheckBenchmark,
}

// Thresholds is the immutable set of gate limits for one validation run.
// Zero values are filled with defaults by the config layer before a run.
type Thresholds struct {
	MinR2Score          float64 `json:"min_r2_score"`
	MaxMAE              float64 `json:"max_mae"`
	MaxRMSE             float64 `json:"max_rmse"`
	MaxMAPE             float64 `json:"max_mape"`
	MinSamples          int     `json:"min_samples"`
	MaxPredictionTimeMs float64 `json:"max_prediction_time_ms"`
	MinThroughputPerSec float64 `json:"min_throughput_samples_per_sec"`
	MaxNoiseTolerance   float64 `json:"max_noise_tolerance"`
	MaxMissingTolerance float64 `json:"max_missing_tolerance"`

	SignificanceLevel   float64 `json:"significance_level"`
	NoiseScale          float64 `json:"noise_scale"`
	MissingFraction     float64 `json:"missing_fraction"`
	RobustnessTrials    int     `json:"robustness_trials"`
	MonotonicFeature    string  `json:"monotonic_feature"`
	MonotonicTolerance  float64 `json:"monotonic_tolerance"`
	BenchmarkIterations int     `json:"benchmark_iterations"`
	Seed                int64   `json:"seed"`
}

// CheckResult is the outcome of one named check. Metrics are always
// recorded, pass or fail, so callers can see which limit was violated.
type CheckResult struct {
	Name    string             `json:"name"`
	Passed  bool               `json:"passed"`
	Metrics map[string]float64 `json:"metrics"`
	Detail  string             `json:"detail,omitempty"`
}

// Report holds the ordered check outcomes of one validation run. Passed is
// the AND of every check. The report is sealed once Validate returns.
type Report struct {
	Checks      []CheckResult `json:"checks"`
	Passed      bool          `json:"passed"`
	GeneratedAt time.Time     `json:"generated_at"`
	Thresholds  Thresholds    `json:"thresholds"`
}

// Check returns the result with the given name, if present.
func (r Report) Check(name string) (CheckResult, bool) {
	for _, check := range r.Checks {
		if check.Name == name {
			return check, true
		}
	}
	return CheckResult{}, false
}

// SizeError reports a dataset below the minimum sample count. It is the only
// condition that aborts a run before any check executes.
type SizeError struct {
	Rows       int
	MinSamples int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("dataset has %d rows, need at least %d", e.Rows, e.MinSamples)
}
