package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kqlbench/kqlbench/internal/logsource"
)

func newQueryCommand() *cobra.Command {
	var (
		workspaceID   string
		timespanHours int
		exampleRef    string
		listExamples  bool
	)

	cmd := &cobra.Command{
		Use:   "query [kql]",
		Short: "Run an ad-hoc KQL query against a workspace",
		Long: `Run an ad-hoc KQL query against a Log Analytics workspace and print the
result table. Useful for finding good result tables to snapshot into test
cases.

Pass the query inline, or use --example scenario/name to run one of the
built-in examples (see --list-examples).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if listExamples {
				for _, sc := range logsource.ExampleScenarios() {
					fmt.Fprintf(w, "%s (%s)\n", sc.Name, sc.ID) //nolint:errcheck
					for _, q := range sc.Queries {
						fmt.Fprintf(w, "  --example \"%s/%s\"\n", sc.ID, q.Name) //nolint:errcheck
					}
				}
				return nil
			}

			kql := ""
			switch {
			case exampleRef != "":
				scenario, name, ok := strings.Cut(exampleRef, "/")
				if !ok {
					return fmt.Errorf("invalid example %q: expected scenario/name", exampleRef)
				}
				q, found := logsource.FindExample(scenario, name)
				if !found {
					return fmt.Errorf("unknown example %q (try --list-examples)", exampleRef)
				}
				kql = q.Query
			case len(args) == 1:
				kql = args[0]
			default:
				return fmt.Errorf("provide a KQL query or --example")
			}

			if workspaceID == "" {
				return fmt.Errorf("--workspace is required")
			}

			client, err := logsource.NewClient(workspaceID)
			if err != nil {
				return err
			}

			table, err := client.Query(context.Background(), kql, timespanHours)
			if err != nil {
				return err
			}

			fmt.Fprintln(w, logsource.FormatTable(table)) //nolint:errcheck
			fmt.Fprintf(w, "\n%d row(s)\n", len(table.Rows)) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&workspaceID, "workspace", "", "Log Analytics workspace id")
	cmd.Flags().IntVar(&timespanHours, "timespan", 24, "Query lookback window in hours")
	cmd.Flags().StringVar(&exampleRef, "example", "", "Run a built-in example, e.g. requests/Failed Requests")
	cmd.Flags().BoolVar(&listExamples, "list-examples", false, "List built-in example queries")

	return cmd
}
