// Package stats wraps the statistical primitives the gate checks rely on.
// Numerical work is delegated to gonum; this package only shapes inputs and
// guards the degenerate cases (constant or zero residuals) that show up with
// near-perfect models.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RSquared returns the coefficient of determination of predictions against
// true values.
func RSquared(truth, predictions []float64) float64 {
	return stat.RSquaredFrom(predictions, truth, nil)
}

// MAE returns the mean absolute error of predictions against true values.
func MAE(truth, predictions []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var sum float64
	for i := range truth {
		sum += math.Abs(predictions[i] - truth[i])
	}
	return sum / float64(len(truth))
}

// RMSE returns the root mean squared error of predictions against true values.
func RMSE(truth, predictions []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var sum float64
	for i := range truth {
		diff := predictions[i] - truth[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(truth)))
}

// MAPE returns the mean absolute percentage error, skipping zero-valued
// truths to avoid division blowups.
func MAPE(truth, predictions []float64) float64 {
	var sum float64
	var count int
	for i := range truth {
		if truth[i] == 0 {
			continue
		}
		sum += math.Abs((predictions[i] - truth[i]) / truth[i])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// Median returns the middle value of xs without mutating the input.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Quantile returns the p-quantile of xs without mutating the input.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// JarqueBera computes the Jarque-Bera normality statistic for residuals and
// its p-value under the chi-squared(2) null. Constant residuals carry no
// evidence against normality and report p = 1.
func JarqueBera(residuals []float64) (statistic, pValue float64) {
	n := float64(len(residuals))
	if n < 3 || StdDev(residuals) == 0 {
		return 0, 1
	}
	skew := stat.Skew(residuals, nil)
	exKurtosis := stat.ExKurtosis(residuals, nil)
	jb := n / 6 * (skew*skew + exKurtosis*exKurtosis/4)
	chi2 := distuv.ChiSquared{K: 2}
	return jb, chi2.Survival(jb)
}

// Levene computes Levene's W statistic over groups of residuals using
// absolute deviations from the group median, and its p-value under the
// F(k-1, N-k) null. Groups with no within-group spread report p = 1.
func Levene(groups [][]float64) (statistic, pValue float64) {
	k := len(groups)
	if k < 2 {
		return 0, 1
	}
	var total int
	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	var grandSum float64
	for i, group := range groups {
		if len(group) == 0 {
			return 0, 1
		}
		median := Median(group)
		devs := make([]float64, len(group))
		for j, value := range group {
			devs[j] = math.Abs(value - median)
			grandSum += devs[j]
		}
		deviations[i] = devs
		groupMeans[i] = Mean(devs)
		total += len(group)
	}
	if total <= k {
		return 0, 1
	}
	grandMean := grandSum / float64(total)

	var between, within float64
	for i, devs := range deviations {
		diff := groupMeans[i] - grandMean
		between += float64(len(devs)) * diff * diff
		for _, dev := range devs {
			d := dev - groupMeans[i]
			within += d * d
		}
	}
	if within == 0 {
		if between == 0 {
			return 0, 1
		}
		return math.Inf(1), 0
	}
	w := (float64(total-k) / float64(k-1)) * (between / within)
	f := distuv.F{D1: float64(k - 1), D2: float64(total - k)}
	return w, f.Survival(w)
}

// DurbinWatson computes the Durbin-Watson statistic for lag-1 autocorrelation
// of residuals in sequence order. Values near 2 indicate no autocorrelation.
// Zero residuals report the ideal 2.
func DurbinWatson(residuals []float64) float64 {
	var sumSquares float64
	for _, r := range residuals {
		sumSquares += r * r
	}
	if sumSquares == 0 || len(residuals) < 2 {
		return 2
	}
	var sumDiffs float64
	for i := 1; i < len(residuals); i++ {
		diff := residuals[i] - residuals[i-1]
		sumDiffs += diff * diff
	}
	return sumDiffs / sumSquares
}
