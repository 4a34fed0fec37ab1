package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"housegate/internal/runner"
)

// writeGateWorkspace creates a directory with model, dataset and config
// files and returns the config path. Coefficients order: sqft, bedrooms.
func writeGateWorkspace(t *testing.T, rows int, coefs [2]float64, minSamples int) string {
	t.Helper()
	dir := t.TempDir()

	modelJSON := fmt.Sprintf(`{"type":"linear","coefficients":[%g,%g],"intercept":50000}`,
		coefs[0], coefs[1])
	if err := os.WriteFile(filepath.Join(dir, "model.json"), []byte(modelJSON), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	var data bytes.Buffer
	data.WriteString("sqft,bedrooms,price\n")
	for i := 0; i < rows; i++ {
		sqft := 800 + 10*float64(i)
		bedrooms := float64(1 + i%4)
		price := 150*sqft + 10000*bedrooms + 50000
		fmt.Fprintf(&data, "%g,%g,%g\n", sqft, bedrooms, price)
	}
	if err := os.WriteFile(filepath.Join(dir, "test.csv"), data.Bytes(), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	configYAML := fmt.Sprintf(`version: 1
model:
  name: house_price_predictor
  path: model.json
dataset:
  path: test.csv
  label: price
  monotonic_feature: sqft
output:
  dir: gate-runs
registry:
  path: registry.duckdb
thresholds:
  min_samples: %d
  max_prediction_time_ms: 5000
  min_throughput_samples_per_sec: 1
  max_noise_tolerance: 0.5
  max_missing_tolerance: 0.5
  noise_scale: 0.01
  robustness_trials: 1
  benchmark_iterations: 5
  seed: 42
`, minSamples)
	configPath := filepath.Join(dir, "housegate.yml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func goodCoefs() [2]float64 { return [2]float64{150, 10000} }

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	code, stdout, _ := runCLI(t)
	if code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stdout, "housegate <command>") {
		t.Fatalf("expected usage text, got %q", stdout)
	}
}

func TestRunHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "--help")
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d", code)
	}
	for _, name := range []string{"validate", "gate", "report", "models", "compare", "promote"} {
		if !strings.Contains(stdout, name) {
			t.Fatalf("usage missing command %q:\n%s", name, stdout)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	if code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr, "Unknown command") {
		t.Fatalf("expected unknown command message, got %q", stderr)
	}
}

func TestValidateCommand(t *testing.T) {
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)

	code, stdout, _ := runCLI(t, "validate", "--config", configPath)
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d", code)
	}
	if !strings.Contains(stdout, "Config OK") {
		t.Fatalf("expected Config OK, got %q", stdout)
	}
}

func TestValidateCommandReportsIssues(t *testing.T) {
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)
	if err := os.Remove(filepath.Join(filepath.Dir(configPath), "model.json")); err != nil {
		t.Fatalf("remove model: %v", err)
	}

	code, _, stderr := runCLI(t, "validate", "--config", configPath)
	if code != ExitError {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stderr, "model.path") {
		t.Fatalf("expected model.path issue, got %q", stderr)
	}
}

func TestGateCommandPasses(t *testing.T) {
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)

	code, stdout, stderr := runCLI(t, "gate", "--config", configPath, "--ui", "plain")
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(stdout, "GATE PASSED") {
		t.Fatalf("expected pass verdict:\n%s", stdout)
	}
	for _, check := range []string{"performance", "statistical", "robustness", "consistency", "benchmark"} {
		if !strings.Contains(stdout, "[PASS] "+check) {
			t.Fatalf("missing check %q:\n%s", check, stdout)
		}
	}

	runsDir := filepath.Join(filepath.Dir(configPath), "gate-runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one run dir, got %v (%v)", entries, err)
	}
	resultsPath := filepath.Join(runsDir, entries[0].Name(), "results.json")
	if _, err := os.Stat(resultsPath); err != nil {
		t.Fatalf("results.json missing: %v", err)
	}
}

func TestGateCommandFailsOnBadModel(t *testing.T) {
	// Negative sqft coefficient breaks monotonicity and accuracy.
	configPath := writeGateWorkspace(t, 120, [2]float64{-150, 10000}, 50)

	code, stdout, _ := runCLI(t, "gate", "--config", configPath, "--ui", "plain")
	if code != ExitError {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stdout, "GATE FAILED") {
		t.Fatalf("expected fail verdict:\n%s", stdout)
	}
}

func TestGateCommandSizeError(t *testing.T) {
	configPath := writeGateWorkspace(t, 30, goodCoefs(), 100)

	code, _, stderr := runCLI(t, "gate", "--config", configPath, "--ui", "plain")
	if code != ExitError {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stderr, "Gate aborted") {
		t.Fatalf("expected size error message, got %q", stderr)
	}
}

func TestGateCommandJSONFormat(t *testing.T) {
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)

	code, stdout, stderr := runCLI(t, "gate", "--config", configPath, "--format", "json")
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d (stderr %q)", code, stderr)
	}
	var results runner.Results
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("parse json output: %v\n%s", err, stdout)
	}
	if !results.Report.Passed || len(results.Report.Checks) != 5 {
		t.Fatalf("unexpected results: %+v", results.Summary)
	}
}

func TestGateCommandRejectsBadFlags(t *testing.T) {
	if code, _, _ := runCLI(t, "gate", "--format", "xml"); code != ExitUsage {
		t.Fatalf("expected usage exit for bad format, got %d", code)
	}
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)
	if code, _, _ := runCLI(t, "gate", "--config", configPath, "--ui", "holographic"); code != ExitUsage {
		t.Fatalf("expected usage exit for bad ui mode, got %d", code)
	}
}

var versionLine = regexp.MustCompile(`Registered version (\S+) \(stage (\w+)\)`)

func TestGateRegisterAndRegistryCommands(t *testing.T) {
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)

	code, stdout, stderr := runCLI(t, "gate", "--config", configPath,
		"--ui", "plain", "--register", "--tag", "baseline")
	if code != ExitOK {
		t.Fatalf("first gate run failed: %d (stderr %q)", code, stderr)
	}
	match := versionLine.FindStringSubmatch(stdout)
	if match == nil || match[2] != "staging" {
		t.Fatalf("expected registered staging version:\n%s", stdout)
	}
	firstID := match[1]

	code, stdout, stderr = runCLI(t, "gate", "--config", configPath,
		"--ui", "plain", "--register")
	if code != ExitOK {
		t.Fatalf("second gate run failed: %d (stderr %q)", code, stderr)
	}
	match = versionLine.FindStringSubmatch(stdout)
	if match == nil {
		t.Fatalf("expected registered version:\n%s", stdout)
	}
	secondID := match[1]

	code, stdout, _ = runCLI(t, "models", "--config", configPath)
	if code != ExitOK {
		t.Fatalf("models failed: %d", code)
	}
	if !strings.Contains(stdout, firstID) || !strings.Contains(stdout, secondID) {
		t.Fatalf("models output missing versions:\n%s", stdout)
	}
	if !strings.Contains(stdout, "archived") {
		t.Fatalf("expected first version archived:\n%s", stdout)
	}

	code, stdout, _ = runCLI(t, "compare", "--config", configPath,
		"--base", firstID, "--head", secondID, "--metric", "mae")
	if code != ExitOK {
		t.Fatalf("compare failed: %d", code)
	}
	if !strings.Contains(stdout, "mae:") {
		t.Fatalf("unexpected compare output:\n%s", stdout)
	}

	code, stdout, _ = runCLI(t, "promote", "--config", configPath,
		"--version", secondID, "--stage", "production")
	if code != ExitOK {
		t.Fatalf("promote failed: %d", code)
	}
	if !strings.Contains(stdout, "promoted to production") {
		t.Fatalf("unexpected promote output:\n%s", stdout)
	}

	if code, _, _ = runCLI(t, "promote", "--config", configPath,
		"--version", secondID, "--stage", "archived"); code != ExitUsage {
		t.Fatalf("expected usage exit for bad stage, got %d", code)
	}
}

func TestReportCommandRendersLatest(t *testing.T) {
	configPath := writeGateWorkspace(t, 120, goodCoefs(), 50)

	if code, _, stderr := runCLI(t, "gate", "--config", configPath, "--ui", "plain"); code != ExitOK {
		t.Fatalf("gate run failed: %v", stderr)
	}

	code, stdout, stderr := runCLI(t, "report", "--config", configPath)
	if code != ExitOK {
		t.Fatalf("report failed: %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(stdout, "GATE PASSED") {
		t.Fatalf("expected rendered report:\n%s", stdout)
	}

	code, stdout, _ = runCLI(t, "report", "--config", configPath, "--format", "json")
	if code != ExitOK {
		t.Fatalf("report json failed: %d", code)
	}
	var results runner.Results
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("parse report json: %v", err)
	}

	code, _, stderr = runCLI(t, "report", "--config", configPath, "--run", "20000101T000000Z-ffffff")
	if code != ExitError {
		t.Fatalf("expected error for unknown run, got %d (stderr %q)", code, stderr)
	}
}
