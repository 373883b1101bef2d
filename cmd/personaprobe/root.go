package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personaprobe",
		Short: "Persona-driven UX testing pipeline",
		Long: `personaprobe turns scripted browsing sessions into UX findings.

A session script drives a browser while a collector records observations,
screenshots, tasks, and metrics for a simulated user persona. The resulting
JSON artifact can be rendered as a self-contained HTML report or analyzed
by a vision model for a prioritized list of UX recommendations.`,
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
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newPublishCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
