package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/claudekit/skillbench/internal/reporting"
	"github.com/claudekit/skillbench/internal/verify"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	verifyFormat    string
	verifyJUnit     string
	verifyInterpret bool
)

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <checklist> [workspace]",
		Short: "Check a benchmark workspace against a checklist",
		Long: fmt.Sprintf(`Evaluate a built-in checklist against a task workspace (default: the
current directory) and print the result.

Exits with status 1 unless every verifiable check passes.

Checklists: %s`, strings.Join(verify.Names(), ", ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: runVerify,
	}

	cmd.Flags().StringVar(&verifyFormat, "format", "json", "Output format: json or table")
	cmd.Flags().StringVar(&verifyJUnit, "junit", "", "Also write results as JUnit XML to this path")
	cmd.Flags().BoolVar(&verifyInterpret, "interpret", false, "Print a plain-language summary after the result")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	checklist, ok := verify.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown checklist %q (available: %s)", args[0], strings.Join(verify.Names(), ", "))
	}
	workspace := "."
	if len(args) > 1 {
		workspace = args[1]
	}

	result := checklist.Run(workspace)
	out := cmd.OutOrStdout()

	switch verifyFormat {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data)) //nolint:errcheck
	case "table":
		printVerifyTable(out, result)
	default:
		return fmt.Errorf("unsupported format %q (want json or table)", verifyFormat)
	}

	if verifyInterpret {
		fmt.Fprintln(out)                                      //nolint:errcheck
		fmt.Fprint(out, reporting.FormatVerifySummary(result)) //nolint:errcheck
	}

	if verifyJUnit != "" {
		if err := reporting.WriteJUnitXML(reporting.ConvertVerifyToJUnit(result, nowFunc()), verifyJUnit); err != nil {
			return err
		}
	}

	if !result.Complete() {
		return &VerificationFailedError{
			Message: fmt.Sprintf("verification failed: %d of %d checks passed", result.Passed, result.Checked),
		}
	}
	return nil
}

func printVerifyTable(w io.Writer, r verify.Result) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	idWidth, descWidth := runewidth.StringWidth("Check"), runewidth.StringWidth("Description")
	for _, o := range r.Checks {
		idWidth = max(idWidth, runewidth.StringWidth(o.ID))
		descWidth = max(descWidth, runewidth.StringWidth(o.Description))
	}

	fmt.Fprintf(w, "%s  %s  %s\n", padRight("Check", idWidth), padRight("Description", descWidth), "Result") //nolint:errcheck
	fmt.Fprintln(w, strings.Repeat("─", idWidth+descWidth+10))                                               //nolint:errcheck
	for _, o := range r.Checks {
		status := pass("✓ pass")
		if !o.Passed {
			status = fail("✗ fail")
		}
		fmt.Fprintf(w, "%s  %s  %s\n", padRight(o.ID, idWidth), padRight(o.Description, descWidth), status) //nolint:errcheck
	}
	fmt.Fprintf(w, "\nAccuracy: %s (%d/%d passed, %d checked)\n", reporting.Percent(r.Accuracy), r.Passed, r.Total, r.Checked) //nolint:errcheck
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
