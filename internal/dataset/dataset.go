// Package dataset loads and slices the held-out tabular data the gate runs
// against: a CSV with a header row of feature columns plus one label column.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"housegate/internal/stats"
)

// Row is one labeled observation.
type Row struct {
	Features []float64
	Label    float64
}

// Dataset is an ordered sequence of labeled rows with named feature columns.
type Dataset struct {
	FeatureNames []string
	LabelName    string
	Rows         []Row
}

// Load reads a CSV file with a header row and splits it into features and
// the named label column.
func Load(path, label string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return Dataset{}, fmt.Errorf("dataset %s is empty", path)
	}

	header := records[0]
	labelIndex := -1
	featureNames := make([]string, 0, len(header)-1)
	for i, name := range header {
		if strings.TrimSpace(name) == label {
			if labelIndex >= 0 {
				return Dataset{}, fmt.Errorf("duplicate label column %q", label)
			}
			labelIndex = i
			continue
		}
		featureNames = append(featureNames, strings.TrimSpace(name))
	}
	if labelIndex < 0 {
		return Dataset{}, fmt.Errorf("label column %q not found in header", label)
	}
	if len(featureNames) == 0 {
		return Dataset{}, fmt.Errorf("dataset has no feature columns besides %q", label)
	}

	rows := make([]Row, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		if len(record) != len(header) {
			return Dataset{}, fmt.Errorf("row %d has %d columns, expected %d", lineNo+2, len(record), len(header))
		}
		features := make([]float64, 0, len(featureNames))
		var labelValue float64
		for i, cell := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("row %d column %q: %w", lineNo+2, header[i], err)
			}
			if i == labelIndex {
				labelValue = value
			} else {
				features = append(features, value)
			}
		}
		rows = append(rows, Row{Features: features, Label: labelValue})
	}

	return Dataset{FeatureNames: featureNames, LabelName: label, Rows: rows}, nil
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// FeatureIndex returns the column index of a named feature, or -1.
func (d Dataset) FeatureIndex(name string) int {
	for i, feature := range d.FeatureNames {
		if feature == name {
			return i
		}
	}
	return -1
}

// Labels returns the label column as a slice.
func (d Dataset) Labels() []float64 {
	labels := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		labels[i] = row.Label
	}
	return labels
}

// Column returns a copy of one feature column.
func (d Dataset) Column(index int) []float64 {
	column := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		column[i] = row.Features[index]
	}
	return column
}

// ColumnStdDev returns the sample standard deviation of a feature column.
func (d Dataset) ColumnStdDev(index int) float64 {
	return stats.StdDev(d.Column(index))
}

// ColumnMedian returns the median of a feature column.
func (d Dataset) ColumnMedian(index int) float64 {
	return stats.Median(d.Column(index))
}

// FeatureMatrix returns a deep copy of all feature vectors, safe to perturb.
func (d Dataset) FeatureMatrix() [][]float64 {
	matrix := make([][]float64, len(d.Rows))
	for i, row := range d.Rows {
		matrix[i] = append([]float64(nil), row.Features...)
	}
	return matrix
}

// Tail returns the trailing fraction of rows, keeping order. A fraction at
// or above 1 returns the dataset unchanged; the result never drops to zero
// rows when the input has any.
func (d Dataset) Tail(fraction float64) Dataset {
	if fraction >= 1 || len(d.Rows) == 0 {
		return d
	}
	count := int(float64(len(d.Rows)) * fraction)
	if count < 1 {
		count = 1
	}
	return Dataset{
		FeatureNames: d.FeatureNames,
		LabelName:    d.LabelName,
		Rows:         d.Rows[len(d.Rows)-count:],
	}
}
