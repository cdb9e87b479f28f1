package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/claudekit/skillbench/internal/hooklog"
	"github.com/claudekit/skillbench/internal/projectconfig"
	"github.com/spf13/cobra"
)

var hookDir string

func newHookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Claude Code hook handlers that log benchmark sessions",
		Long: `Hook handlers for benchmark sessions. Each reads the hook payload from stdin,
appends events to <dir>/<session_id>.jsonl and writes the hook response to
stdout. Logging failures are reported on stderr and never block the agent.

Example .claude/settings.json entries:
  "PostToolUse": [{"hooks": [{"type": "command", "command": "skillbench hook tool"}]}]
  "Stop":        [{"hooks": [{"type": "command", "command": "skillbench hook stop"}]}]`,
	}

	cmd.PersistentFlags().StringVar(&hookDir, "dir", "", "Hook log directory (default: paths.hooks)")

	cmd.AddCommand(&cobra.Command{
		Use:   "tool",
		Short: "Log a tool call (PostToolUse hook)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, hooklog.HandleToolHook)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Log the end of a session (Stop hook)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, hooklog.HandleStopHook)
		},
	})

	return cmd
}

type hookHandler func(r io.Reader, w io.Writer, dir string, now time.Time) error

func runHook(cmd *cobra.Command, handle hookHandler) error {
	dir := hookDir
	if dir == "" {
		cfg, _, err := loadProjectConfig()
		if err != nil {
			slog.Warn("hook: using default log directory", "error", err)
			dir = projectconfig.DefaultHooksDir
		} else {
			dir = cfg.Paths.Hooks
		}
	}

	if err := handle(cmd.InOrStdin(), cmd.OutOrStdout(), dir, nowFunc()); err != nil {
		slog.Warn("hook: failed to log event", "error", err)
	}
	return nil
}
