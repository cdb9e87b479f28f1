package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/claudekit/skillbench/internal/benchmark"
	"github.com/claudekit/skillbench/internal/concepts"
	"github.com/claudekit/skillbench/internal/reporting"
	"github.com/spf13/cobra"
)

const defaultSuite = "context-engineering"

var (
	contextLogDir     string
	contextReportsDir string
	contextConcepts   string
	contextFormat     string
	contextHTML       bool
	contextPublish    bool
	contextNoWrite    bool
)

func newContextReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context-report [suite]",
		Short: "Compare two skill variants answering the same tasks",
		Long: `Compare the answers of two skill variants (for example a monolithic and a
modular context engineering skill) to the same task list: tokens, duration
and cost per task, plus concept coverage of each answer.

Reads <kind>-task-<n>.json Claude CLI results from the suite's log directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runContextReport,
	}

	cmd.Flags().StringVar(&contextLogDir, "log-dir", "", "Suite log directory (default: the suite's log_dir)")
	cmd.Flags().StringVar(&contextReportsDir, "reports-dir", "", "Directory reports are written to (default: paths.reports)")
	cmd.Flags().StringVar(&contextConcepts, "concepts", "", "YAML file of expected concepts per task (default: built-in set)")
	cmd.Flags().StringVar(&contextFormat, "format", "", "Output format: markdown or json (default: defaults.format)")
	cmd.Flags().BoolVar(&contextHTML, "html", false, "Also write an HTML copy of the report")
	cmd.Flags().BoolVar(&contextPublish, "publish", false, "Upload the report to the configured blob container")
	cmd.Flags().BoolVar(&contextNoWrite, "no-write", false, "Print the report without saving it")

	return cmd
}

func loadConceptSet(path string) (*concepts.TaskSet, error) {
	if path == "" {
		return concepts.Default()
	}
	return concepts.Load(path)
}

func runContextReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadProjectConfig()
	if err != nil {
		return err
	}

	name := defaultSuite
	if len(args) > 0 {
		name = args[0]
	}

	profiles, err := cfg.BenchmarkProfiles()
	if err != nil {
		return err
	}
	suite, ok := profiles.Suites[name]
	if !ok {
		return fmt.Errorf("unknown suite %q", name)
	}
	if contextLogDir != "" {
		suite.LogDir = contextLogDir
	}

	format := contextFormat
	if format == "" {
		format = cfg.Defaults.Format
	}
	if format != "markdown" && format != "json" {
		return fmt.Errorf("unsupported format %q (want markdown or json)", format)
	}

	out := cmd.OutOrStdout()

	if info, err := os.Stat(suite.LogDir); err != nil || !info.IsDir() {
		fmt.Fprintf(out, "Log directory not found: %s\n", suite.LogDir) //nolint:errcheck
		fmt.Fprintln(out, "Run the benchmark first.")                   //nolint:errcheck
		return nil
	}

	set, err := loadConceptSet(contextConcepts)
	if err != nil {
		return err
	}
	names := set.Names()

	fmt.Fprintf(out, "Analyzing %s skill results...\n", suite.Base.Key) //nolint:errcheck
	base, err := benchmark.AnalyzeSuite(suite.LogDir, suite.Base.Key, names)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Analyzing %s skill results...\n", suite.Other.Key) //nolint:errcheck
	other, err := benchmark.AnalyzeSuite(suite.LogDir, suite.Other.Key, names)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Running verification...") //nolint:errcheck
	verification, err := concepts.VerifyDir(suite.LogDir, []string{suite.Base.Key, suite.Other.Key}, set)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Generating report...") //nolint:errcheck
	now := nowFunc()
	filename := reporting.ReportFilename(now, "", suite.ReportTag)

	reportsDir := contextReportsDir
	if reportsDir == "" {
		reportsDir = cfg.Paths.Reports
	}
	sink := reportSink{Dir: reportsDir, NoWrite: contextNoWrite, HTML: contextHTML, Publish: contextPublish, Config: cfg}

	if format == "json" {
		data, err := json.MarshalIndent(map[string]any{
			suite.Base.Key:  base,
			suite.Other.Key: other,
			"verification":  verification,
		}, "", "  ")
		if err != nil {
			return err
		}
		sink.HTML = false
		return sink.Emit(cmd.Context(), out, strings.TrimSuffix(filename, ".md")+".json", suite.Title, string(data))
	}

	report := reporting.RenderContext(reporting.ContextInput{
		Suite:        suite,
		Base:         base,
		Other:        other,
		Verification: verification,
		Now:          now,
	})
	return sink.Emit(cmd.Context(), out, filename, suite.Title, report)
}
