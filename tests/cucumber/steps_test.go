package cucumber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"housegate/internal/cli"

	"github.com/cucumber/godog"
)

type featureState struct {
	workDir     string
	configPath  string
	previousWD  string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int
	initialized bool
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a workspace with a valid gate configuration$`, state.aWorkspaceWithValidConfig)
	ctx.Step(`^the config is invalid$`, state.theConfigIsInvalid)
	ctx.Step(`^the model artifact predicts the dataset accurately$`, state.theModelPredictsAccurately)
	ctx.Step(`^the model artifact contradicts the dataset$`, state.theModelContradictsDataset)
	ctx.Step(`^the dataset has fewer rows than the minimum sample count$`, state.theDatasetIsUndersized)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the error message points to the invalid field$`, state.theErrorPointsToInvalidField)
	ctx.Step(`^the error message mentions the sample minimum$`, state.theErrorMentionsSampleMinimum)
}

func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.initialized = false
}

func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
		s.previousWD = ""
	}
	if s.workDir != "" {
		_ = os.RemoveAll(s.workDir)
		s.workDir = ""
	}
}

func (s *featureState) aWorkspaceWithValidConfig() error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "housegate-feature-*")
	if err != nil {
		return fmt.Errorf("create temp workspace: %w", err)
	}
	s.workDir = dir
	s.configPath = filepath.Join(dir, "housegate.yml")

	if err := s.writeModel(150, 10000); err != nil {
		return err
	}
	if err := s.writeDataset(120); err != nil {
		return err
	}
	if err := os.WriteFile(s.configPath, []byte(validConfigYAML()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

func (s *featureState) theConfigIsInvalid() error {
	return os.WriteFile(s.configPath, []byte(invalidConfigYAML()), 0o644)
}

func (s *featureState) theModelPredictsAccurately() error {
	return s.writeModel(150, 10000)
}

func (s *featureState) theModelContradictsDataset() error {
	return s.writeModel(-150, 10000)
}

func (s *featureState) theDatasetIsUndersized() error {
	return s.writeDataset(20)
}

func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "housegate" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

func (s *featureState) theOutputContains(text string) error {
	if !strings.Contains(s.stdout.String(), text) {
		return fmt.Errorf("expected %q in output, got %q", text, s.stdout.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected zero exit code, got %d (stderr %q)", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

func (s *featureState) theErrorPointsToInvalidField() error {
	errOutput := s.stderr.String()
	if !strings.Contains(errOutput, "version") {
		return fmt.Errorf("expected error to mention version, got %q", errOutput)
	}
	return nil
}

func (s *featureState) theErrorMentionsSampleMinimum() error {
	errOutput := s.stderr.String()
	if !strings.Contains(errOutput, "need at least") {
		return fmt.Errorf("expected error to mention the sample minimum, got %q", errOutput)
	}
	return nil
}

func (s *featureState) writeModel(sqftCoef, bedroomsCoef float64) error {
	modelJSON := fmt.Sprintf(`{"type":"linear","coefficients":[%g,%g],"intercept":50000}`,
		sqftCoef, bedroomsCoef)
	path := filepath.Join(s.workDir, "model.json")
	if err := os.WriteFile(path, []byte(modelJSON), 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

func (s *featureState) writeDataset(rows int) error {
	var data bytes.Buffer
	data.WriteString("sqft,bedrooms,price\n")
	for i := 0; i < rows; i++ {
		sqft := 800 + 10*float64(i)
		bedrooms := float64(1 + i%4)
		price := 150*sqft + 10000*bedrooms + 50000
		fmt.Fprintf(&data, "%g,%g,%g\n", sqft, bedrooms, price)
	}
	path := filepath.Join(s.workDir, "test.csv")
	if err := os.WriteFile(path, data.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func validConfigYAML() string {
	return `version: 1
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
  min_samples: 50
  max_prediction_time_ms: 5000
  min_throughput_samples_per_sec: 1
  max_noise_tolerance: 0.5
  max_missing_tolerance: 0.5
  noise_scale: 0.01
  robustness_trials: 1
  benchmark_iterations: 5
  seed: 42
`
}

func invalidConfigYAML() string {
	return `version: 2
model:
  name: house_price_predictor
  path: model.json
dataset:
  path: test.csv
thresholds:
  min_samples: 50
`
}
