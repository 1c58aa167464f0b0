package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kqlbench/kqlbench/internal/config"
	"github.com/kqlbench/kqlbench/internal/logsource"
	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/orchestration"
	"github.com/kqlbench/kqlbench/internal/panel"
	"github.com/kqlbench/kqlbench/internal/reporting"
)

var (
	outputPath     string
	verbose        bool
	engineOverride string
	workspaceFlag  string
	modelOverrides []string
	caseRange      string
	junitPath      string
	csvPath        string
	htmlPath       string
	archivePath    string
	runFormat      string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <bench.yaml>",
		Short: "Run a benchmark",
		Long: `Run a benchmark from a spec file.

The spec file defines the candidate models, the judge panel, and the test
cases (inline YAML files or a CSV dataset). Test cases without inline result
tables are fetched live from the configured Log Analytics workspace.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for results")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with detailed progress")
	cmd.Flags().StringVar(&engineOverride, "engine", "", "Engine override: openai or mock")
	cmd.Flags().StringVar(&workspaceFlag, "workspace", "", "Log Analytics workspace id (overrides spec)")
	cmd.Flags().StringArrayVar(&modelOverrides, "model", nil, "Restrict to a subset of the spec's models (can be repeated)")
	cmd.Flags().StringVar(&caseRange, "range", "", "Restrict CSV dataset rows, e.g. 1:50")
	cmd.Flags().StringVar(&junitPath, "junit", "", "Also write JUnit XML to this path")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write per-pair CSV to this path")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Also write an HTML report to this path")
	cmd.Flags().StringVar(&archivePath, "archive", "", "Also write a gzip archive to this path")
	cmd.Flags().StringVar(&runFormat, "format", "default", "Output format: default, markdown")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	specPath := args[0]

	spec, err := models.LoadBenchSpec(specPath)
	if err != nil {
		return fmt.Errorf("failed to load spec: %w", err)
	}

	specDir := filepath.Dir(specPath)
	if !filepath.IsAbs(specDir) {
		if abs, err := filepath.Abs(specDir); err == nil {
			specDir = abs
		}
	}

	opts := []config.Option{
		config.WithSpecDir(specDir),
		config.WithVerbose(verbose),
		config.WithOutputPath(outputPath),
		config.WithEngine(engineOverride),
		config.WithWorkspaceID(workspaceFlag),
		config.WithModels(modelOverrides),
	}
	if caseRange != "" {
		start, end, err := parseRange(caseRange)
		if err != nil {
			return err
		}
		opts = append(opts, config.WithCaseRange(start, end))
	}
	cfg := config.NewBenchmarkConfig(spec, opts...)

	explainer, judges, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	runnerOpts := []orchestration.RunnerOption{}
	if id := cfg.WorkspaceID(); id != "" {
		client, err := logsource.NewClient(id)
		if err != nil {
			return fmt.Errorf("connecting to workspace: %w", err)
		}
		runnerOpts = append(runnerOpts, orchestration.WithRowFetcher(client))
	}

	runner := orchestration.NewRunner(cfg, explainer, judges, runnerOpts...)

	var stopReporter func()
	if verbose {
		runner.OnProgress(verboseProgressListener)
	} else {
		reporter := newSpinnerReporter(cmd.OutOrStdout())
		runner.OnProgress(reporter.Listen)
		stopReporter = reporter.Stop
	}

	fmt.Printf("Running benchmark: %s\n", spec.Name)
	fmt.Printf("Engine:   %s\n", cfg.Engine())
	fmt.Printf("Audience: %s\n", spec.Audience)
	fmt.Printf("Models:   %s\n", strings.Join(cfg.Models(), ", "))
	fmt.Println()

	run, err := runner.RunBenchmark(context.Background())
	if stopReporter != nil {
		stopReporter()
	}
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	report := &reporting.Report{
		Run:    run,
		Ranked: orchestration.NewAggregator().Aggregate(run),
	}

	switch runFormat {
	case "markdown":
		fmt.Print(reporting.FormatMarkdown(report))
	case "default":
		fmt.Print(reporting.FormatSummary(report))
	default:
		return fmt.Errorf("unknown output format: %s (supported: default, markdown)", runFormat)
	}

	if err := writeExports(report); err != nil {
		return err
	}

	failed := countFailedPairs(run)
	if failed > 0 {
		return &BenchFailureError{
			Message: fmt.Sprintf("benchmark completed with %d failed pair(s)", failed),
		}
	}
	return nil
}

func buildEngine(cfg *config.BenchmarkConfig) (panel.Explainer, panel.JudgePanel, error) {
	spec := cfg.Spec()
	switch cfg.Engine() {
	case "mock":
		engine := panel.NewMockEngine(spec.Judges)
		return engine, engine, nil
	case "openai":
		engine, err := panel.NewOpenAIEngine(spec.Judges)
		if err != nil {
			return nil, nil, err
		}
		return engine, engine, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine: %s (supported: openai, mock)", cfg.Engine())
	}
}

func writeExports(report *reporting.Report) error {
	if outputPath != "" {
		if err := reporting.WriteJSON(report, outputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Printf("\nResults saved to: %s\n", outputPath)
	}
	if csvPath != "" {
		if err := reporting.WriteCSV(report, csvPath); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Printf("CSV saved to: %s\n", csvPath)
	}
	if junitPath != "" {
		if err := reporting.WriteJUnitXML(report, junitPath); err != nil {
			return fmt.Errorf("failed to write JUnit XML: %w", err)
		}
		fmt.Printf("JUnit XML saved to: %s\n", junitPath)
	}
	if htmlPath != "" {
		if err := reporting.WriteHTML(report, htmlPath); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		fmt.Printf("HTML report saved to: %s\n", htmlPath)
	}
	if archivePath != "" {
		if err := reporting.WriteArchive(report, archivePath); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		fmt.Printf("Archive saved to: %s\n", archivePath)
	}
	return nil
}

func countFailedPairs(run *models.BenchmarkRun) int {
	failed := 0
	for _, results := range run.PerModel {
		for i := range results {
			if !results[i].Succeeded() {
				failed++
			}
		}
	}
	return failed
}

// parseRange parses "start:end" into 1-based inclusive bounds.
func parseRange(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q: expected start:end", s)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q", parts[0])
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end %q", parts[1])
	}
	return start, end, nil
}
