package gate

import (
	"time"

	"housegate/internal/stats"
)

// throughputBatchLimit caps how many rows the throughput measurement walks.
const throughputBatchLimit = 1000

// benchmarkCheck measures single-prediction latency over repeated calls
// (first call discarded as warm-up) and back-to-back batch throughput.
func (e *engine) benchmarkCheck() (CheckResult, error) {
	iterations := e.th.BenchmarkIterations
	if iterations < 1 {
		iterations = 1
	}
	sample := e.ds.Rows[0].Features

	// Warm-up call so lazy initialization does not skew the first sample.
	if _, err := e.predict(sample); err != nil {
		return CheckResult{}, err
	}

	latencies := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if _, err := e.predict(sample); err != nil {
			return CheckResult{}, err
		}
		latencies = append(latencies, float64(time.Since(start).Nanoseconds())/1e6)
	}
	meanLatency := stats.Mean(latencies)
	medianLatency := stats.Median(latencies)
	p95Latency := stats.Quantile(latencies, 0.95)

	batch := e.ds.Rows
	if len(batch) > throughputBatchLimit {
		batch = batch[:throughputBatchLimit]
	}
	start := time.Now()
	for _, row := range batch {
		if _, err := e.predict(row.Features); err != nil {
			return CheckResult{}, err
		}
	}
	elapsed := time.Since(start)
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	throughput := float64(len(batch)) / elapsed.Seconds()

	latencyOK := meanLatency <= e.th.MaxPredictionTimeMs
	throughputOK := throughput >= e.th.MinThroughputPerSec

	return CheckResult{
		Passed: latencyOK && throughputOK,
		Metrics: map[string]float64{
			"mean_latency_ms":   meanLatency,
			"median_latency_ms": medianLatency,
			"p95_latency_ms":    p95Latency,
			"throughput_per_s":  throughput,
			"latency_ok":        boolMetric(latencyOK),
			"throughput_ok":     boolMetric(throughputOK),
		},
	}, nil
}
