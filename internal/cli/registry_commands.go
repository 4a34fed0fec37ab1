package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"housegate/internal/config"
	"housegate/internal/registry"
)

// openRegistry loads the config and opens the registry it points at. An
// explicit registryPath skips config loading entirely.
func openRegistry(ctx context.Context, configPath, registryPath string) (*registry.Registry, error) {
	if registryPath != "" {
		return registry.Open(ctx, registryPath)
	}
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Registry.Path == "" {
		return nil, fmt.Errorf("no registry path configured in %s", resolved)
	}
	return registry.Open(ctx, resolveUnder(filepath.Dir(resolved), cfg.Registry.Path))
}

// runModels builds the handler for the models command.
func runModels(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file")
		registryPath := fs.String("registry", "", "Registry database path (overrides config)")
		modelName := fs.String("model", "", "Filter by model name")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		ctx := context.Background()
		reg, err := openRegistry(ctx, *configPath, *registryPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open registry: %v\n", err)
			return ExitError
		}
		defer reg.Close()

		versions, err := reg.List(ctx, *modelName)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to list versions: %v\n", err)
			return ExitError
		}
		if len(versions) == 0 {
			fmt.Fprintln(stdout, "No registered versions")
			return ExitOK
		}
		for _, version := range versions {
			verdict := "failed"
			if version.Passed {
				verdict = "passed"
			}
			fmt.Fprintf(stdout, "%s  %-10s %-6s %s  run %s  r2=%.4f\n",
				version.ID, version.Stage, verdict,
				version.RegisteredAt.Format("2006-01-02 15:04:05"),
				version.RunID, version.Metrics["r2_score"])
		}
		return ExitOK
	}
}

// runCompare builds the handler for the compare command.
func runCompare(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file")
		registryPath := fs.String("registry", "", "Registry database path (overrides config)")
		baseID := fs.String("base", "", "Baseline version ID")
		headID := fs.String("head", "", "Candidate version ID")
		metric := fs.String("metric", "r2_score", "Metric to compare on")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *baseID == "" || *headID == "" {
			fmt.Fprintln(stderr, "both --base and --head are required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		ctx := context.Background()
		reg, err := openRegistry(ctx, *configPath, *registryPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open registry: %v\n", err)
			return ExitError
		}
		defer reg.Close()

		baseline, err := reg.Get(ctx, *baseID)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load baseline: %v\n", err)
			return ExitError
		}
		candidate, err := reg.Get(ctx, *headID)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load candidate: %v\n", err)
			return ExitError
		}

		comparison, err := registry.Compare(candidate, baseline, *metric)
		if err != nil {
			fmt.Fprintf(stderr, "Comparison failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "%s: head %.4f vs base %.4f (delta %+.4f)\n",
			comparison.Metric, comparison.CandidateValue, comparison.BaselineValue, comparison.Delta)
		switch {
		case comparison.Tie:
			fmt.Fprintln(stdout, "Versions tie")
		case comparison.CandidateWins:
			fmt.Fprintf(stdout, "Head version %s wins\n", candidate.ID)
		default:
			fmt.Fprintf(stdout, "Base version %s wins\n", baseline.ID)
		}
		return ExitOK
	}
}

// runPromote builds the handler for the promote command.
func runPromote(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file")
		registryPath := fs.String("registry", "", "Registry database path (overrides config)")
		versionID := fs.String("version", "", "Version ID to promote")
		stageName := fs.String("stage", "", "Target stage: staging or production")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *versionID == "" || *stageName == "" {
			fmt.Fprintln(stderr, "both --version and --stage are required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		stage, err := registry.ParseStage(*stageName)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}

		ctx := context.Background()
		reg, err := openRegistry(ctx, *configPath, *registryPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open registry: %v\n", err)
			return ExitError
		}
		defer reg.Close()

		version, err := reg.Promote(ctx, *versionID, stage)
		if err != nil {
			fmt.Fprintf(stderr, "Promotion failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Version %s promoted to %s\n", version.ID, version.Stage)
		return ExitOK
	}
}
