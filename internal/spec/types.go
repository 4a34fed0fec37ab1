// Package spec defines the configuration schema for a gate run.
package spec

type Config struct {
	Version    int              `yaml:"version"`
	Model      ModelConfig      `yaml:"model"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Output     OutputConfig     `yaml:"output"`
	Thresholds ThresholdConfig  `yaml:"thresholds"`
	Registry   RegistryConfig   `yaml:"registry"`
}

type ModelConfig struct {
	Name             string `yaml:"name"`
	Path             string `yaml:"path"`
	PreprocessorPath string `yaml:"preprocessor_path"`
}

type DatasetConfig struct {
	Path             string  `yaml:"path"`
	Label            string  `yaml:"label"`
	MonotonicFeature string  `yaml:"monotonic_feature"`
	TailFraction     float64 `yaml:"tail_fraction"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ThresholdConfig enumerates every recognized gate limit. Unset values are
// filled with defaults during normalization; unknown keys are rejected at
// parse time.
type ThresholdConfig struct {
	MinR2Score          float64 `yaml:"min_r2_score"`
	MaxMAE              float64 `yaml:"max_mae"`
	MaxRMSE             float64 `yaml:"max_rmse"`
	MaxMAPE             float64 `yaml:"max_mape"`
	MinSamples          int     `yaml:"min_samples"`
	MaxPredictionTimeMs float64 `yaml:"max_prediction_time_ms"`
	MinThroughputPerSec float64 `yaml:"min_throughput_samples_per_sec"`
	MaxNoiseTolerance   float64 `yaml:"max_noise_tolerance"`
	MaxMissingTolerance float64 `yaml:"max_missing_tolerance"`

	SignificanceLevel   float64 `yaml:"significance_level"`
	NoiseScale          float64 `yaml:"noise_scale"`
	MissingFraction     float64 `yaml:"missing_fraction"`
	RobustnessTrials    int     `yaml:"robustness_trials"`
	MonotonicTolerance  float64 `yaml:"monotonic_tolerance"`
	BenchmarkIterations int     `yaml:"benchmark_iterations"`
	Seed                int64   `yaml:"seed"`
}

type RegistryConfig struct {
	Path         string `yaml:"path"`
	KeepVersions int    `yaml:"keep_versions"`
}
