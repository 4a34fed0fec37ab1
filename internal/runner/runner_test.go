package runner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"housegate/internal/gate"
	"housegate/internal/spec"
	"housegate/internal/testutil"
)

// writeRunFixtures builds a base dir with a linear model and a dataset it
// predicts exactly, plus a config pointing at them.
func writeRunFixtures(t *testing.T, rows int) (string, spec.Config) {
	t.Helper()
	baseDir := t.TempDir()

	modelJSON := `{"type":"linear","coefficients":[150,10000],"intercept":50000}`
	if err := os.WriteFile(filepath.Join(baseDir, "model.json"), []byte(modelJSON), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	var buf bytes.Buffer
	buf.WriteString("sqft,bedrooms,price\n")
	for i := 0; i < rows; i++ {
		sqft := 800 + 10*float64(i)
		bedrooms := float64(1 + i%4)
		price := 150*sqft + 10000*bedrooms + 50000
		fmt.Fprintf(&buf, "%g,%g,%g\n", sqft, bedrooms, price)
	}
	if err := os.WriteFile(filepath.Join(baseDir, "test.csv"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	cfg := spec.Config{
		Version: 1,
		Model: spec.ModelConfig{
			Name: "house_price_predictor",
			Path: "model.json",
		},
		Dataset: spec.DatasetConfig{
			Path:             "test.csv",
			Label:            "price",
			MonotonicFeature: "sqft",
			TailFraction:     1,
		},
		Output: spec.OutputConfig{Dir: "gate-runs"},
	}
	cfg.Thresholds = spec.ThresholdConfig{
		MinR2Score:          0.85,
		MaxMAE:              15000,
		MaxRMSE:             20000,
		MaxMAPE:             0.15,
		MinSamples:          50,
		MaxPredictionTimeMs: 5000,
		MinThroughputPerSec: 1,
		MaxNoiseTolerance:   0.5,
		MaxMissingTolerance: 0.5,
		SignificanceLevel:   0.05,
		NoiseScale:          0.01,
		MissingFraction:     0.1,
		RobustnessTrials:    1,
		MonotonicTolerance:  0.3,
		BenchmarkIterations: 5,
		Seed:                42,
	}
	return baseDir, cfg
}

func fixedDeps() RunDependencies {
	return RunDependencies{
		RunID: func() (string, error) { return "20240101T000000Z-abc123", nil },
		Now:   func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestRunProducesPassingResults(t *testing.T) {
	baseDir, cfg := writeRunFixtures(t, 120)

	results, err := Run(cfg, RunParams{BaseDir: baseDir, Deps: fixedDeps()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results.RunID != "20240101T000000Z-abc123" {
		t.Fatalf("unexpected run ID %q", results.RunID)
	}
	if results.ModelName != "house_price_predictor" {
		t.Fatalf("unexpected model name %q", results.ModelName)
	}
	if results.Samples != 120 {
		t.Fatalf("expected 120 samples, got %d", results.Samples)
	}
	if !results.Report.Passed {
		t.Fatalf("expected passing report: %+v", results.Report)
	}
	if results.Summary.ChecksTotal != len(gate.CheckNames) {
		t.Fatalf("expected %d checks, got %d", len(gate.CheckNames), results.Summary.ChecksTotal)
	}
	if results.Summary.ChecksFailed != 0 || !results.Summary.Passed {
		t.Fatalf("unexpected summary %+v", results.Summary)
	}
	if results.Summary.PassRate != 1 {
		t.Fatalf("expected pass rate 1, got %v", results.Summary.PassRate)
	}
}

func TestRunAppliesTailFraction(t *testing.T) {
	baseDir, cfg := writeRunFixtures(t, 200)
	cfg.Dataset.TailFraction = 0.5
	cfg.Thresholds.MinSamples = 50

	results, err := Run(cfg, RunParams{BaseDir: baseDir, Deps: fixedDeps()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results.Samples != 100 {
		t.Fatalf("expected 100 tail samples, got %d", results.Samples)
	}
}

// advancingObserver moves a fake clock forward as checks finish.
type advancingObserver struct {
	clock *testutil.FakeClock
	names []string
}

func (o *advancingObserver) CheckStarted(name string) {
	o.names = append(o.names, name)
}

func (o *advancingObserver) CheckFinished(result gate.CheckResult) {
	o.clock.Advance(time.Second)
}

func TestRunRecordsElapsedTime(t *testing.T) {
	baseDir, cfg := writeRunFixtures(t, 120)
	clock := testutil.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	observer := &advancingObserver{clock: clock}

	results, err := Run(cfg, RunParams{
		BaseDir:  baseDir,
		Observer: observer,
		Deps: RunDependencies{
			RunID: func() (string, error) { return "20240101T000000Z-abc123", nil },
			Now:   clock.Now,
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := results.FinishedAt.Sub(results.StartedAt); got != 5*time.Second {
		t.Fatalf("expected 5s elapsed, got %v", got)
	}
	if len(observer.names) != len(gate.CheckNames) {
		t.Fatalf("expected %d check starts, got %v", len(gate.CheckNames), observer.names)
	}
}

func TestRunPropagatesSizeError(t *testing.T) {
	baseDir, cfg := writeRunFixtures(t, 30)
	cfg.Thresholds.MinSamples = 100

	_, err := Run(cfg, RunParams{BaseDir: baseDir, Deps: fixedDeps()})
	var sizeErr *gate.SizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected size error, got %v", err)
	}
	if sizeErr.Rows != 30 || sizeErr.MinSamples != 100 {
		t.Fatalf("unexpected size error %+v", sizeErr)
	}
}

func TestRunFailsOnMissingModel(t *testing.T) {
	baseDir, cfg := writeRunFixtures(t, 120)
	cfg.Model.Path = "missing.json"

	if _, err := Run(cfg, RunParams{BaseDir: baseDir, Deps: fixedDeps()}); err == nil {
		t.Fatal("expected error for missing model artifact")
	}
}

func TestRunAndWritePersistsOutputs(t *testing.T) {
	baseDir, cfg := writeRunFixtures(t, 120)

	results, paths, err := RunAndWrite(cfg, RunParams{BaseDir: baseDir, Deps: fixedDeps()}, func(r Results) string {
		return "run " + r.RunID + "\n"
	})
	if err != nil {
		t.Fatalf("run and write: %v", err)
	}
	if paths.Root != filepath.Join(baseDir, "gate-runs") {
		t.Fatalf("unexpected output root %q", paths.Root)
	}

	data, err := os.ReadFile(paths.ResultsPath())
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	var loaded Results
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("parse results: %v", err)
	}
	if loaded.RunID != results.RunID {
		t.Fatalf("run ID mismatch: %q vs %q", loaded.RunID, results.RunID)
	}
	if len(loaded.Report.Checks) != len(results.Report.Checks) {
		t.Fatalf("check count mismatch")
	}

	report, err := os.ReadFile(paths.ReportPath())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), results.RunID) {
		t.Fatalf("rendered report missing run ID: %q", report)
	}
}

func TestResolveRunPicksLatest(t *testing.T) {
	outputDir := t.TempDir()
	for _, runID := range []string{
		"20240101T000000Z-aaaaaa",
		"20240301T000000Z-cccccc",
		"20240201T000000Z-bbbbbb",
	} {
		paths := OutputPaths{Root: outputDir, RunID: runID}
		if err := os.MkdirAll(paths.RunDir(), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		payload := fmt.Sprintf(`{"run_id":%q}`, runID)
		if err := os.WriteFile(paths.ResultsPath(), []byte(payload), 0o644); err != nil {
			t.Fatalf("write results: %v", err)
		}
	}
	// Directories without results.json are ignored.
	if err := os.MkdirAll(filepath.Join(outputDir, "20240401T000000Z-dddddd"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	paths, err := ResolveRun(outputDir, "")
	if err != nil {
		t.Fatalf("resolve latest: %v", err)
	}
	if paths.RunID != "20240301T000000Z-cccccc" {
		t.Fatalf("expected latest run, got %q", paths.RunID)
	}

	results, err := LoadRun(outputDir, "20240101T000000Z-aaaaaa")
	if err != nil {
		t.Fatalf("load by ID: %v", err)
	}
	if results.RunID != "20240101T000000Z-aaaaaa" {
		t.Fatalf("unexpected run %q", results.RunID)
	}
}

func TestResolveRunErrors(t *testing.T) {
	outputDir := t.TempDir()
	if _, err := ResolveRun(outputDir, ""); err == nil {
		t.Fatal("expected error for empty output dir")
	}
	if _, err := ResolveRun(outputDir, "20240101T000000Z-aaaaaa"); err == nil {
		t.Fatal("expected error for unknown run ID")
	}
}

func TestRunIDFormat(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	id, err := NewRunIDWithRand(now, bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}))
	if err != nil {
		t.Fatalf("new run ID: %v", err)
	}
	if id != "20240506T070809Z-deadbeef0102" {
		t.Fatalf("unexpected run ID %q", id)
	}
}
