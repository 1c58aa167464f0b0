package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kqlbench/kqlbench/internal/reporting"
)

func newExportCommand() *cobra.Command {
	var (
		toCSV     string
		toJUnit   string
		toHTML    string
		toArchive string
		toJSON    string
		markdown  bool
	)

	cmd := &cobra.Command{
		Use:   "export <results.json | results.json.gz>",
		Short: "Re-export a saved run into other formats",
		Long: `Re-export a previously saved run (JSON or gzip archive) into other
formats without re-running the benchmark.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var (
				report *reporting.Report
				err    error
			)
			if strings.HasSuffix(path, ".gz") {
				report, err = reporting.ReadArchive(path)
			} else {
				report, err = reporting.ReadJSON(path)
			}
			if err != nil {
				return fmt.Errorf("loading run: %w", err)
			}

			w := cmd.OutOrStdout()
			wrote := false
			write := func(label, target string, fn func(*reporting.Report, string) error) error {
				if target == "" {
					return nil
				}
				if err := fn(report, target); err != nil {
					return fmt.Errorf("writing %s: %w", label, err)
				}
				fmt.Fprintf(w, "%s saved to: %s\n", label, target) //nolint:errcheck
				wrote = true
				return nil
			}

			if err := write("CSV", toCSV, reporting.WriteCSV); err != nil {
				return err
			}
			if err := write("JUnit XML", toJUnit, reporting.WriteJUnitXML); err != nil {
				return err
			}
			if err := write("HTML report", toHTML, reporting.WriteHTML); err != nil {
				return err
			}
			if err := write("Archive", toArchive, reporting.WriteArchive); err != nil {
				return err
			}
			if err := write("JSON", toJSON, reporting.WriteJSON); err != nil {
				return err
			}

			if markdown {
				fmt.Fprint(w, reporting.FormatMarkdown(report)) //nolint:errcheck
				wrote = true
			}

			if !wrote {
				fmt.Fprint(w, reporting.FormatSummary(report)) //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toCSV, "csv", "", "Write per-pair CSV to this path")
	cmd.Flags().StringVar(&toJUnit, "junit", "", "Write JUnit XML to this path")
	cmd.Flags().StringVar(&toHTML, "html", "", "Write an HTML report to this path")
	cmd.Flags().StringVar(&toArchive, "archive", "", "Write a gzip archive to this path")
	cmd.Flags().StringVar(&toJSON, "json", "", "Write plain JSON to this path (useful for .gz inputs)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the markdown report to stdout")

	return cmd
}
