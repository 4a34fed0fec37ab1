package gate

import (
	"sort"

	"housegate/internal/stats"
)

// Durbin-Watson rule-of-thumb bounds for "no autocorrelation".
const (
	durbinWatsonLow  = 1.5
	durbinWatsonHigh = 2.5
)

// homoscedasticityGroups is the number of prediction-ordered groups the
// residuals are split into for the equal-variance test.
const homoscedasticityGroups = 3

// statisticalCheck tests the residual distribution: normality,
// homoscedasticity across the prediction range, and absence of lag-1
// autocorrelation. The check passes only when all three sub-tests pass.
func (e *engine) statisticalCheck() (CheckResult, error) {
	predictions, err := e.predictAll(e.ds.FeatureMatrix())
	if err != nil {
		return CheckResult{}, err
	}
	truth := e.ds.Labels()

	residuals := make([]float64, len(truth))
	for i := range truth {
		residuals[i] = predictions[i] - truth[i]
	}

	normalityStat, normalityP := stats.JarqueBera(residuals)
	normal := normalityP > e.th.SignificanceLevel

	leveneStat, leveneP := stats.Levene(groupByPrediction(predictions, residuals, homoscedasticityGroups))
	homoscedastic := leveneP > e.th.SignificanceLevel

	dw := stats.DurbinWatson(residuals)
	uncorrelated := dw > durbinWatsonLow && dw < durbinWatsonHigh

	return CheckResult{
		Passed: normal && homoscedastic && uncorrelated,
		Metrics: map[string]float64{
			"normality_stat":     normalityStat,
			"normality_p":        normalityP,
			"levene_stat":        leveneStat,
			"levene_p":           leveneP,
			"durbin_watson":      dw,
			"residuals_normal":   boolMetric(normal),
			"homoscedastic":      boolMetric(homoscedastic),
			"no_autocorrelation": boolMetric(uncorrelated),
		},
	}, nil
}

// groupByPrediction splits residuals into n groups ordered by prediction
// magnitude, so variance trends across the prediction range surface as
// unequal group variances.
func groupByPrediction(predictions, residuals []float64, n int) [][]float64 {
	order := make([]int, len(predictions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return predictions[order[a]] < predictions[order[b]]
	})

	groups := make([][]float64, 0, n)
	size := len(order) / n
	if size == 0 {
		size = 1
	}
	for i := 0; i < n; i++ {
		start := i * size
		end := start + size
		if i == n-1 || end > len(order) {
			end = len(order)
		}
		if start >= end {
			break
		}
		group := make([]float64, 0, end-start)
		for _, idx := range order[start:end] {
			group = append(group, residuals[idx])
		}
		groups = append(groups, group)
	}
	return groups
}
