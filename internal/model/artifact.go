package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// modelArtifact is the on-disk JSON form of a trained model.
type modelArtifact struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// scalerArtifact is the on-disk JSON form of a fitted preprocessor.
type scalerArtifact struct {
	Type  string    `json:"type"`
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadPredictor reads a model artifact file.
func LoadPredictor(path string) (Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	switch artifact.Type {
	case "linear":
		if len(artifact.Coefficients) == 0 {
			return nil, fmt.Errorf("model artifact %s has no coefficients", path)
		}
		return Linear{Coefficients: artifact.Coefficients, Intercept: artifact.Intercept}, nil
	case "":
		return nil, fmt.Errorf("model artifact %s is missing a type", path)
	default:
		return nil, fmt.Errorf("unsupported model type %q in %s", artifact.Type, path)
	}
}

// LoadPreprocessor reads a preprocessor artifact file. An empty path yields
// the identity preprocessor.
func LoadPreprocessor(path string) (Preprocessor, error) {
	if path == "" {
		return Identity{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preprocessor artifact: %w", err)
	}
	var artifact scalerArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse preprocessor artifact %s: %w", path, err)
	}
	switch artifact.Type {
	case "standard_scaler":
		if len(artifact.Mean) != len(artifact.Scale) {
			return nil, fmt.Errorf("preprocessor artifact %s has %d means but %d scales", path, len(artifact.Mean), len(artifact.Scale))
		}
		if len(artifact.Mean) == 0 {
			return nil, fmt.Errorf("preprocessor artifact %s is empty", path)
		}
		return StandardScaler{Mean: artifact.Mean, Scale: artifact.Scale}, nil
	case "identity":
		return Identity{}, nil
	case "":
		return nil, fmt.Errorf("preprocessor artifact %s is missing a type", path)
	default:
		return nil, fmt.Errorf("unsupported preprocessor type %q in %s", artifact.Type, path)
	}
}
