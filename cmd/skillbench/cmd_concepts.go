package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/claudekit/skillbench/internal/concepts"
	"github.com/claudekit/skillbench/internal/reporting"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	conceptsFile      string
	conceptsKinds     []string
	conceptsJUnit     string
	conceptsInterpret bool
)

func newConceptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concepts [log-dir]",
		Short: "Score benchmark answers against expected concepts",
		Long: `Score every <kind>-task-<n>.json answer in a log directory against the
expected concepts of its task and print per-task coverage followed by the
results as JSON.

The log directory defaults to the context-engineering suite's log_dir.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConcepts,
	}

	cmd.Flags().StringVar(&conceptsFile, "concepts", "", "YAML file of expected concepts per task (default: built-in set)")
	cmd.Flags().StringSliceVar(&conceptsKinds, "kinds", nil, "Answer sets to score (default: the suite's two sides)")
	cmd.Flags().StringVar(&conceptsJUnit, "junit", "", "Also write results as JUnit XML to this path")
	cmd.Flags().BoolVar(&conceptsInterpret, "interpret", false, "Print a plain-language coverage summary")

	return cmd
}

func runConcepts(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadProjectConfig()
	if err != nil {
		return err
	}
	profiles, err := cfg.BenchmarkProfiles()
	if err != nil {
		return err
	}
	suite := profiles.Suites[defaultSuite]

	logDir := suite.LogDir
	if len(args) > 0 {
		logDir = args[0]
	}
	if info, err := os.Stat(logDir); err != nil || !info.IsDir() {
		return fmt.Errorf("Log directory not found: %s\nRun the benchmark first.", logDir)
	}

	kinds := conceptsKinds
	if len(kinds) == 0 {
		kinds = []string{suite.Base.Key, suite.Other.Key}
	}

	set, err := loadConceptSet(conceptsFile)
	if err != nil {
		return err
	}

	v, err := concepts.VerifyDir(logDir, kinds, set)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printConceptResults(out, v)

	if conceptsInterpret {
		fmt.Fprintln(out)                                  //nolint:errcheck
		fmt.Fprint(out, reporting.FormatConceptSummary(v)) //nolint:errcheck
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60)) //nolint:errcheck
	fmt.Fprintln(out, "JSON Results:")              //nolint:errcheck
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data)) //nolint:errcheck

	if conceptsJUnit != "" {
		if err := reporting.WriteJUnitXML(reporting.ConvertConceptsToJUnit(v, nowFunc()), conceptsJUnit); err != nil {
			return err
		}
		fmt.Fprintf(out, "JUnit report saved: %s\n", conceptsJUnit) //nolint:errcheck
	}
	return nil
}

func printConceptResults(w io.Writer, v *concepts.Verification) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))                                 //nolint:errcheck
	fmt.Fprintln(w, "Context Engineering Skill Benchmark - Verification Results") //nolint:errcheck
	fmt.Fprintln(w, strings.Repeat("=", 60))                                      //nolint:errcheck

	for _, k := range v.Kinds {
		fmt.Fprintf(w, "\n### %s Skill ###\n\n", strings.ToUpper(k.Kind)) //nolint:errcheck
		for _, t := range k.Tasks {
			if t.Error != "" {
				fmt.Fprintf(w, "Task %d (%s): %s\n", t.TaskID, t.TaskName, red("ERROR - "+t.Error)) //nolint:errcheck
				continue
			}
			pct := fmt.Sprintf("%.0f%%", t.Accuracy*100)
			switch {
			case len(t.Missing) == 0:
				pct = green(pct)
			case t.Score == 0:
				pct = red(pct)
			default:
				pct = yellow(pct)
			}
			fmt.Fprintf(w, "Task %d (%s): %s (%d/%d)\n", t.TaskID, t.TaskName, pct, t.Score, t.Total) //nolint:errcheck
			if len(t.Missing) > 0 {
				fmt.Fprintf(w, "  Missing: %s\n", strings.Join(t.Missing, ", ")) //nolint:errcheck
			}
		}

		found, possible := k.Overall()
		if possible > 0 {
			fmt.Fprintf(w, "\nOverall Accuracy: %.1f%% (%d/%d)\n", float64(found)/float64(possible)*100, found, possible) //nolint:errcheck
		}
	}
}
