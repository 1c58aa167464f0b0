package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/validation"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <bench.yaml>",
		Short: "Check a benchmark spec before running it",
		Long: `Check a benchmark spec against its JSON schema, validate run-time
semantics (model count, judge ids, audience, weights), and validate every
referenced test case file.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runCheck,
		SilenceErrors: true,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

type checkJSONReport struct {
	Timestamp  string              `json:"timestamp"`
	Path       string              `json:"path"`
	Valid      bool                `json:"valid"`
	SpecErrors []string            `json:"specErrors,omitempty"`
	CaseErrors map[string][]string `json:"caseErrors,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	benchPath := args[0]
	specErrs, caseErrs, err := validation.ValidateBenchFile(benchPath)
	if err != nil {
		return err
	}

	// Schema-clean specs still need the semantic checks the schema cannot
	// express (duplicate judge ids, weight coverage).
	if len(specErrs) == 0 {
		if _, loadErr := models.LoadBenchSpec(benchPath); loadErr != nil {
			specErrs = append(specErrs, loadErr.Error())
		}
	}

	valid := len(specErrs) == 0 && len(caseErrs) == 0

	if format == "json" {
		report := checkJSONReport{
			Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
			Path:       benchPath,
			Valid:      valid,
			SpecErrors: specErrs,
			CaseErrors: caseErrs,
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
		if err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Checking %s\n\n", benchPath) //nolint:errcheck
		if len(specErrs) > 0 {
			fmt.Fprintf(w, "Spec errors (%d):\n", len(specErrs)) //nolint:errcheck
			for _, e := range specErrs {
				fmt.Fprintf(w, "  ✗ %s\n", e) //nolint:errcheck
			}
		}
		if len(caseErrs) > 0 {
			fmt.Fprintf(w, "Test case errors (%d file(s)):\n", len(caseErrs)) //nolint:errcheck
			for file, errs := range caseErrs {
				fmt.Fprintf(w, "  %s:\n", file) //nolint:errcheck
				for _, e := range errs {
					fmt.Fprintf(w, "    ✗ %s\n", e) //nolint:errcheck
				}
			}
		}
		if valid {
			fmt.Fprintln(w, "✓ Spec is valid") //nolint:errcheck
		}
	}

	if !valid {
		return fmt.Errorf("spec validation failed")
	}
	return nil
}
