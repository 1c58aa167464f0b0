package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/wizard"
)

func newNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <bench-name>",
		Short: "Create a new benchmark directory",
		Long: `Create a new benchmark directory with a bench.yaml and starter test cases.

When running in a terminal (TTY), launches an interactive wizard to collect
models, judges, audience, and an optional example-query scenario. In
non-interactive environments (CI, pipes), a minimal default spec is written.`,
		Args: cobra.ExactArgs(1),
		RunE: newCommandE,
	}
	return cmd
}

func newCommandE(cmd *cobra.Command, args []string) error {
	benchName := args[0]
	if err := wizard.ValidateName(benchName); err != nil {
		return err
	}

	// Check TTY from the command's input stream, not os.Stdin directly.
	inReader := cmd.InOrStdin()
	isTTY := false
	if f, ok := inReader.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	var draft *wizard.BenchDraft
	if isTTY {
		d, err := wizard.RunBenchWizard(cmd.InOrStdin(), cmd.OutOrStdout(), benchName)
		if err != nil {
			return err
		}
		if d.Name != "" && d.Name != benchName {
			return fmt.Errorf("wizard name %q does not match CLI argument %q", d.Name, benchName)
		}
		d.Name = benchName
		draft = d
	} else {
		draft = defaultDraft(benchName)
	}

	benchYAML, err := wizard.GenerateBenchYAML(draft)
	if err != nil {
		return err
	}

	cases, err := wizard.SeedCases(draft)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		cases = map[string]string{"sample.yaml": defaultCaseYAML()}
	}

	rootDir := benchName
	casesDir := filepath.Join(rootDir, "cases")
	if err := os.MkdirAll(casesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", casesDir, err)
	}

	files := map[string]string{
		filepath.Join(rootDir, "bench.yaml"): benchYAML,
	}
	for name, content := range cases {
		files[filepath.Join(casesDir, name)] = content
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Scaffolding benchmark:") //nolint:errcheck
	for path, content := range files {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  skip %s (already exists)\n", path) //nolint:errcheck
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  create %s\n", path) //nolint:errcheck
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nNext: kqlbench run %s\n", filepath.Join(rootDir, "bench.yaml")) //nolint:errcheck
	return nil
}

func defaultDraft(name string) *wizard.BenchDraft {
	return &wizard.BenchDraft{
		Name:     name,
		Audience: models.AudienceDeveloper,
		Models:   []string{"gpt-4o", "gpt-4o-mini"},
		Judges:   []string{"gpt-4o"},
		Engine:   "mock",
	}
}

func defaultCaseYAML() string {
	return strings.TrimLeft(`
id: failed-requests
query: |-
  requests
  | where timestamp > ago(24h)
  | where success == false
  | summarize count() by name, resultCode
  | order by count_ desc
table:
  columns: [name, resultCode, count_]
  rows:
    - ["GET /api/orders", "500", 42]
    - ["POST /api/checkout", "502", 17]
    - ["GET /api/users", "500", 5]
`, "\n")
}
