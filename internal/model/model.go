// Package model defines the prediction capabilities the gate exercises and
// the artifact files used to exchange frozen models with the trainer.
package model

import (
	"fmt"
)

// Predictor produces a scalar prediction for one feature vector. It may fail
// on malformed input; the gate records such failures per check.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Preprocessor transforms raw features into the form the model expects.
type Preprocessor interface {
	Transform(raw []float64) ([]float64, error)
}

// Linear is a linear regression model with fixed coefficients.
type Linear struct {
	Coefficients []float64
	Intercept    float64
}

// Predict computes the dot product of coefficients and features plus the
// intercept.
func (m Linear) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Coefficients), len(features))
	}
	sum := m.Intercept
	for i, coefficient := range m.Coefficients {
		sum += coefficient * features[i]
	}
	return sum, nil
}

// StandardScaler centers and scales features column-wise.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Transform applies (x - mean) / scale per column. Zero scales pass the
// centered value through unscaled.
func (s StandardScaler) Transform(raw []float64) ([]float64, error) {
	if len(raw) != len(s.Mean) || len(raw) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(raw))
	}
	out := make([]float64, len(raw))
	for i, value := range raw {
		centered := value - s.Mean[i]
		if s.Scale[i] != 0 {
			centered /= s.Scale[i]
		}
		out[i] = centered
	}
	return out, nil
}

// Identity passes raw features through unchanged. It stands in when no
// preprocessor artifact is configured.
type Identity struct{}

// Transform returns the input as-is.
func (Identity) Transform(raw []float64) ([]float64, error) {
	return raw, nil
}
