package reporting

import (
	"fmt"
	"strings"

	"github.com/claudekit/skillbench/internal/concepts"
	"github.com/claudekit/skillbench/internal/verify"
)

// InterpretAccuracy returns a plain-language label for an accuracy (0–1).
func InterpretAccuracy(acc float64) string {
	pct := acc * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretCoverage explains a concept coverage ratio.
func InterpretCoverage(found, possible int) string {
	if possible == 0 {
		return "No responses were scored"
	}
	pct := float64(found) / float64(possible) * 100
	switch {
	case found == possible:
		return fmt.Sprintf("Every expected concept was covered (%.0f%%)", pct)
	case pct >= 80:
		return fmt.Sprintf("Most expected concepts were covered (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the expected concepts were covered (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few expected concepts were covered (%.0f%%)", pct)
	}
}

// FormatVerifySummary produces the plain-language summary printed after a
// checklist run.
func FormatVerifySummary(r verify.Result) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	fmt.Fprintf(&b, "Accuracy: %s — %s\n", Percent(r.Accuracy), InterpretAccuracy(r.Accuracy))
	fmt.Fprintf(&b, "Checks:   %d passed, %d failed, %d evaluated of %d\n", r.Passed, r.Failed, r.Checked, r.Total)
	if r.Complete() && r.Checked < r.Total {
		fmt.Fprintf(&b, "All verifiable checks passed; %d steps cannot be checked from the workspace.\n", r.Total-r.Checked)
	}

	var failed []verify.Outcome
	for _, o := range r.Checks {
		if !o.Passed {
			failed = append(failed, o)
		}
	}
	if len(failed) > 0 {
		b.WriteString("\nFailed checks:\n")
		for _, o := range failed {
			fmt.Fprintf(&b, "  ✗ %s: %s\n", o.ID, o.Description)
		}
	}
	return b.String()
}

// FormatConceptSummary produces the per answer set coverage summary of a
// concept verification.
func FormatConceptSummary(v *concepts.Verification) string {
	var b strings.Builder
	b.WriteString("=== Interpretation ===\n")
	for _, k := range v.Kinds {
		found, possible := k.Overall()
		fmt.Fprintf(&b, "\n%s: %s\n", k.Kind, InterpretCoverage(found, possible))
		for _, t := range k.Tasks {
			if t.Error != "" {
				fmt.Fprintf(&b, "  ✗ %s: %s\n", t.TaskName, t.Error)
				continue
			}
			icon := "✓"
			if len(t.Missing) > 0 {
				icon = "✗"
			}
			fmt.Fprintf(&b, "  %s %s: %d/%d\n", icon, t.TaskName, t.Score, t.Total)
			if len(t.Missing) > 0 {
				fmt.Fprintf(&b, "    missing: %s\n", strings.Join(t.Missing, ", "))
			}
		}
	}
	return b.String()
}
