package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"housegate/internal/config"
	"housegate/internal/gate"
	"housegate/internal/registry"
	"housegate/internal/report"
	"housegate/internal/runner"
	"housegate/internal/spec"
	"housegate/internal/ui/live"
)

var runAndWrite = runner.RunAndWrite

// tagList collects repeated --tag flags.
type tagList []string

func (t *tagList) String() string { return strings.Join(*t, ",") }

func (t *tagList) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("tag must not be empty")
	}
	*t = append(*t, value)
	return nil
}

// runGate builds the handler for the gate command.
func runGate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file")
		outputDir := fs.String("output-dir", "", "Override output directory")
		format := fs.String("format", "text", "Output format: text or json")
		uiMode := fs.String("ui", "auto", "Progress UI: auto, live or plain")
		register := fs.Bool("register", false, "Record the gated version in the registry")
		noColor := fs.Bool("no-color", false, "Disable ANSI styling")
		var tags tagList
		fs.Var(&tags, "tag", "Tag to attach to the registered version (repeatable)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *format != "text" && *format != "json" {
			fmt.Fprintf(stderr, "invalid format %q (expected text|json)\n", *format)
			return ExitUsage
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to locate config: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		baseDir := filepath.Dir(resolved)

		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if *format == "json" {
			decision.useLive = false
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		runID, err := runner.NewRunID()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to allocate run ID: %v\n", err)
			return ExitError
		}

		var controller *live.Controller
		var observer gate.Observer
		if decision.useLive {
			controller = live.Start(stdout, live.Options{NoColor: *noColor})
			controller.OnRunStart(runID, cfg.Model.Name)
			observer = controller
		}

		params := runner.RunParams{
			BaseDir:   baseDir,
			OutputDir: *outputDir,
			Observer:  observer,
			Deps: runner.RunDependencies{
				RunID: func() (string, error) { return runID, nil },
			},
		}
		results, paths, err := runAndWrite(cfg, params, func(r runner.Results) string {
			return report.RenderText(r, report.Palette{})
		})
		if controller != nil {
			controller.OnRunEnd(err == nil && results.Report.Passed)
			controller.Wait()
		}
		if err != nil {
			var sizeErr *gate.SizeError
			if errors.As(err, &sizeErr) {
				fmt.Fprintf(stderr, "Gate aborted: %v\n", sizeErr)
				return ExitError
			}
			fmt.Fprintf(stderr, "Gate run failed: %v\n", err)
			return ExitError
		}

		switch *format {
		case "json":
			payload, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				fmt.Fprintf(stderr, "Failed to encode results: %v\n", err)
				return ExitError
			}
			fmt.Fprintln(stdout, string(payload))
		default:
			fmt.Fprint(stdout, report.RenderText(results, report.PaletteFor(stdout, *noColor)))
			fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
			fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())
		}

		if *register {
			if err := registerRun(cfg, baseDir, results, tags, stdout); err != nil {
				fmt.Fprintf(stderr, "Failed to register version: %v\n", err)
				return ExitError
			}
		}

		if !results.Report.Passed {
			return ExitError
		}
		return ExitOK
	}
}

// registerRun records a finished run in the configured registry and prunes
// old versions.
func registerRun(cfg spec.Config, baseDir string, results runner.Results, tags []string, stdout io.Writer) error {
	if cfg.Registry.Path == "" {
		return fmt.Errorf("no registry path configured")
	}
	ctx := context.Background()
	reg, err := registry.Open(ctx, resolveUnder(baseDir, cfg.Registry.Path))
	if err != nil {
		return err
	}
	defer reg.Close()

	version, err := reg.Register(ctx, results, tags...)
	if err != nil {
		return err
	}
	if _, err := reg.ArchiveOld(ctx, version.ModelName, cfg.Registry.KeepVersions); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Registered version %s (stage %s)\n", version.ID, version.Stage)
	return nil
}

// resolveUnder resolves a possibly relative path against a base directory.
func resolveUnder(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
