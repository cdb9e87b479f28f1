package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claudekit/skillbench/internal/benchmark"
	"github.com/claudekit/skillbench/internal/reporting"
	"github.com/claudekit/skillbench/internal/transcript"
	"github.com/spf13/cobra"
)

const defaultAnalyzeProfile = "fileops"

var (
	analyzeLogDir         string
	analyzeReportsDir     string
	analyzeTranscriptsDir string
	analyzeModel          string
	analyzeFormat         string
	analyzeHTML           bool
	analyzePublish        bool
	analyzeNoWrite        bool
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [profile]",
		Short: "Compare benchmark runs of two methods",
		Long: `Analyze benchmark runs recorded for a comparison profile and write a
Markdown report comparing the methods.

Built-in profiles:
  fileops        Skills vs commands on a 21-step file operations task
  orchestration  /code:auto vs /cook --auto on a 4-phase greeting API

Profiles can be overridden or added in .skillbench.yaml under "profiles".`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&analyzeLogDir, "log-dir", "", "Benchmark log directory (default: the profile's log_dir)")
	cmd.Flags().StringVar(&analyzeReportsDir, "reports-dir", "", "Directory reports are written to (default: paths.reports)")
	cmd.Flags().StringVar(&analyzeTranscriptsDir, "transcripts-dir", "", "Session transcript directory (default: the Claude project directory of the working directory)")
	cmd.Flags().StringVar(&analyzeModel, "model", "", "Model name shown in the report (default: <log-dir>/model.txt, else \"default\")")
	cmd.Flags().StringVar(&analyzeFormat, "format", "", "Output format: markdown or json (default: defaults.format)")
	cmd.Flags().BoolVar(&analyzeHTML, "html", false, "Also write an HTML copy of the report")
	cmd.Flags().BoolVar(&analyzePublish, "publish", false, "Upload the report to the configured blob container")
	cmd.Flags().BoolVar(&analyzeNoWrite, "no-write", false, "Print the report without saving it")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, cwd, err := loadProjectConfig()
	if err != nil {
		return err
	}

	name := defaultAnalyzeProfile
	if len(args) > 0 {
		name = args[0]
	}

	profiles, err := cfg.BenchmarkProfiles()
	if err != nil {
		return err
	}
	p, ok := profiles.Comparisons[name]
	if !ok {
		return fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(profiles.ComparisonNames(), ", "))
	}
	if analyzeLogDir != "" {
		p.LogDir = analyzeLogDir
	}

	format := analyzeFormat
	if format == "" {
		format = cfg.Defaults.Format
	}
	if format != "markdown" && format != "json" {
		return fmt.Errorf("unsupported format %q (want markdown or json)", format)
	}

	transcripts := analyzeTranscriptsDir
	if transcripts == "" {
		transcripts = cfg.ResolveTranscripts(cwd)
	}
	locator := transcript.Locator{
		Dir:    transcript.ExpandHome(transcripts),
		Search: append(append([]string{}, cfg.Paths.TranscriptSearch...), p.TranscriptSearch...),
	}

	res, err := benchmark.NewCollector(p, locator).Collect()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	counts := make([]string, 0, len(res.Methods))
	for _, m := range res.Methods {
		counts = append(counts, fmt.Sprintf("%d %s runs", len(m.Runs), m.Label))
	}
	fmt.Fprintf(out, "Found %s\n", strings.Join(counts, ", ")) //nolint:errcheck

	if res.TotalRuns() == 0 {
		fmt.Fprintln(out, "No benchmark logs found. Run benchmarks first.") //nolint:errcheck
		return nil
	}

	model := resolveModel(analyzeModel, p.LogDir)
	now := nowFunc()
	filename := reporting.ReportFilename(now, model, p.ReportTag)

	reportsDir := analyzeReportsDir
	if reportsDir == "" {
		reportsDir = cfg.Paths.Reports
	}
	sink := reportSink{Dir: reportsDir, NoWrite: analyzeNoWrite, HTML: analyzeHTML, Publish: analyzePublish, Config: cfg}

	if format == "json" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		sink.HTML = false
		return sink.Emit(cmd.Context(), out, strings.TrimSuffix(filename, ".md")+".json", p.Title, string(data))
	}

	report := reporting.RenderBenchmark(reporting.BenchmarkInput{
		Profile:   p,
		Results:   res,
		Model:     model,
		Now:       now,
		Threshold: cfg.Thresholds.Comparable,
	})
	return sink.Emit(cmd.Context(), out, filename, p.Title, report)
}

// resolveModel prefers the flag, then <logDir>/model.txt, then "default".
func resolveModel(flag, logDir string) string {
	if flag != "" {
		return flag
	}
	data, err := os.ReadFile(filepath.Join(logDir, "model.txt"))
	if err == nil {
		if m := strings.TrimSpace(string(data)); m != "" {
			return m
		}
	}
	return "default"
}
