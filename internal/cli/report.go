package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"housegate/internal/config"
	"housegate/internal/report"
	"housegate/internal/runner"
)

// runReport builds the handler for the report command.
func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file")
		outputDir := fs.String("output-dir", "", "Override output directory")
		runID := fs.String("run", "", "Run ID to render (default: latest)")
		format := fs.String("format", "text", "Output format: text or json")
		noColor := fs.Bool("no-color", false, "Disable ANSI styling")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *format != "text" && *format != "json" {
			fmt.Fprintf(stderr, "invalid format %q (expected text|json)\n", *format)
			return ExitUsage
		}

		dir := *outputDir
		if dir == "" {
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
			dir = resolveUnder(filepath.Dir(resolved), cfg.Output.Dir)
		}

		results, err := runner.LoadRun(dir, *runID)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load run: %v\n", err)
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
		}
		return ExitOK
	}
}
