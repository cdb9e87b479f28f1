package main

import (
	"fmt"
	"path/filepath"

	"github.com/claudekit/skillbench/internal/hooklog"
	"github.com/spf13/cobra"
)

var sessionDir string

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "View benchmark hook logs",
		Long: `View hook logs written by "skillbench hook".

Hook logs are JSONL files with one event per line: tool calls, context token
counters and the end of the session.`,
	}

	cmd.AddCommand(newSessionListCommand())
	cmd.AddCommand(newSessionViewCommand())

	return cmd
}

func newSessionListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded hook logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := sessionDir
			if dir == "" {
				cfg, _, err := loadProjectConfig()
				if err != nil {
					return err
				}
				dir = cfg.Paths.Hooks
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			files, err := hooklog.ListSessions(absDir)
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No session logs found.") //nolint:errcheck
				return nil
			}

			fmt.Fprintf(out, "%-40s %-8s %s\n", "File", "Events", "Modified")                      //nolint:errcheck
			fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────") //nolint:errcheck
			for _, f := range files {
				fmt.Fprintf(out, "%-40s %-8d %s\n", f.Name, f.NumEvents, f.ModTime.Format("2006-01-02 15:04:05")) //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionDir, "dir", "", "Directory to search for hook logs (default: paths.hooks)")

	return cmd
}

func newSessionViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <session-file>",
		Short: "View a session timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := hooklog.ReadEvents(args[0])
			if err != nil {
				return fmt.Errorf("reading session: %w", err)
			}

			hooklog.RenderTimeline(cmd.OutOrStdout(), events)
			return nil
		},
	}

	return cmd
}
