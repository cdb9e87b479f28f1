package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillbench",
		Short: "skillbench - benchmark and validate Claude skills",
		Long: `skillbench analyzes benchmark runs of Claude skills and commands.

It aggregates session transcripts into comparison reports, verifies task
workspaces and answers against checklists, generates skill tests with an LLM
and records tool usage through Claude Code hooks.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newContextReportCommand())
	cmd.AddCommand(newConceptsCommand())
	cmd.AddCommand(newVerifyCommand())
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newHookCommand())
	cmd.AddCommand(newSessionCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
