package gate

import (
	"housegate/internal/stats"
)

// performanceCheck computes the regression accuracy metrics over the full
// dataset and compares each against its threshold. All metrics are recorded
// regardless of which limit fails.
func (e *engine) performanceCheck() (CheckResult, error) {
	predictions, err := e.predictAll(e.ds.FeatureMatrix())
	if err != nil {
		return CheckResult{}, err
	}
	truth := e.ds.Labels()

	r2 := stats.RSquared(truth, predictions)
	mae := stats.MAE(truth, predictions)
	rmse := stats.RMSE(truth, predictions)
	mape := stats.MAPE(truth, predictions)

	residuals := make([]float64, len(truth))
	for i := range truth {
		residuals[i] = predictions[i] - truth[i]
	}

	passed := r2 >= e.th.MinR2Score &&
		mae <= e.th.MaxMAE &&
		rmse <= e.th.MaxRMSE &&
		mape <= e.th.MaxMAPE

	return CheckResult{
		Passed: passed,
		Metrics: map[string]float64{
			"r2_score":      r2,
			"mae":           mae,
			"rmse":          rmse,
			"mape":          mape,
			"mean_residual": stats.Mean(residuals),
			"std_residual":  stats.StdDev(residuals),
			"n_samples":     float64(e.ds.Len()),
		},
	}, nil
}
