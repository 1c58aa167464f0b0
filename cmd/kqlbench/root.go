package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kqlbench",
		Short: "kqlbench - benchmark LLM explanations of KQL query results",
		Long: `kqlbench compares how well different LLMs explain the results of KQL
queries against Azure Log Analytics data.

Each candidate model explains every test case's result table; a panel of
judge models scores the explanations on a seven-dimension rubric, judge
bias is normalized out, and the models are ranked for a target audience.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newNewCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newQueryCommand())
	cmd.AddCommand(newExportCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
