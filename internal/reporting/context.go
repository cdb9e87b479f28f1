package reporting

import (
	"fmt"
	"time"

	"github.com/claudekit/skillbench/internal/benchmark"
	"github.com/claudekit/skillbench/internal/concepts"
	"github.com/claudekit/skillbench/internal/metrics"
)

// ContextInput is everything a task suite comparison report shows.
type ContextInput struct {
	Suite benchmark.SuiteProfile
	Base  *benchmark.SuiteResults
	Other *benchmark.SuiteResults
	// Verification is optional; without it the accuracy table and the
	// accuracy vote are left out.
	Verification *concepts.Verification
	Now          time.Time
}

// RenderContext renders the comparison of two skill variants answering
// the same tasks.
func RenderContext(in ContextInput) string {
	s := in.Suite
	base, other := in.Base, in.Other

	var d doc
	d.addf("# %s", s.Title)
	d.add("")
	d.addf("**Date:** %s", in.Now.Format("2006-01-02 15:04"))
	d.addf("**Comparison:** %s", s.Comparison)
	d.add("")

	bDur, oDur := base.TotalDurationMs/1000, other.TotalDurationMs/1000
	d.add("## Summary", "")
	d.table([]string{"Metric", s.Base.Label, s.Other.Label, "Diff"}, [][]string{
		{"Total Tokens", Thousands(base.TotalTokens), Thousands(other.TotalTokens),
			guardedDiff(float64(base.TotalTokens), float64(other.TotalTokens), 1)},
		{"Avg Tokens/Task", ThousandsF(base.AvgTokensPerTask), ThousandsF(other.AvgTokensPerTask),
			guardedDiff(base.AvgTokensPerTask, other.AvgTokensPerTask, 1)},
		{"Total Duration", fmt.Sprintf("%.1fs", bDur), fmt.Sprintf("%.1fs", oDur),
			guardedDiff(bDur, oDur, 0.1)},
		{"Total Cost", dollars(base.TotalCostUSD), dollars(other.TotalCostUSD),
			guardedDiff(base.TotalCostUSD, other.TotalCostUSD, 0.0001)},
	})
	d.add("")

	d.add("## Accuracy Comparison", "")
	baseWins, otherWins := 0, 0
	switch {
	case base.TotalTokens < other.TotalTokens:
		baseWins++
	case other.TotalTokens < base.TotalTokens:
		otherWins++
	}

	if in.Verification != nil && len(in.Verification.Kinds) > 0 {
		bk, _ := in.Verification.Kind(s.Base.Key)
		ek, _ := in.Verification.Kind(s.Other.Key)

		var rows [][]string
		var bAcc, oAcc []float64
		for _, task := range base.Tasks {
			b, _ := bk.Task(task.ID)
			o, _ := ek.Task(task.ID)
			bAcc = append(bAcc, b.Accuracy*100)
			oAcc = append(oAcc, o.Accuracy*100)
			rows = append(rows, []string{
				task.Name,
				fmt.Sprintf("%.0f%%", b.Accuracy*100),
				fmt.Sprintf("%.0f%%", o.Accuracy*100),
				pick(b.Accuracy, o.Accuracy, s.Base.Short, s.Other.Short),
			})
		}
		if len(rows) > 0 {
			bm, om := metrics.Mean(bAcc), metrics.Mean(oAcc)
			rows = append(rows, []string{
				"**Average**",
				fmt.Sprintf("**%.1f%%**", bm),
				fmt.Sprintf("**%.1f%%**", om),
				"**" + pick(bm, om, s.Base.Short, s.Other.Short) + "**",
			})
			switch {
			case bm > om:
				baseWins++
			case om > bm:
				otherWins++
			}
		}
		d.table([]string{"Task", s.Base.Short + " Accuracy", s.Other.Short + " Accuracy", "Winner"}, rows)
		d.add("")
	}

	d.add("## Task Details", "")
	for _, side := range []struct {
		heading string
		res     *benchmark.SuiteResults
	}{{s.Base.DetailHeading, base}, {s.Other.DetailHeading, other}} {
		d.addf("### %s", side.heading)
		d.add("")
		var rows [][]string
		for _, t := range side.res.Tasks {
			rows = append(rows, []string{
				t.Name, Thousands(t.Tokens), Seconds(t.DurationMs), dollars(t.CostUSD), fmt.Sprint(t.NumTurns),
			})
		}
		d.table([]string{"Task", "Tokens", "Duration", "Cost", "Turns"}, rows)
		d.add("")
	}

	winner := "Tie"
	switch {
	case baseWins > otherWins:
		winner = s.Base.Label
	case otherWins > baseWins:
		winner = s.Other.Label
	}
	d.add("## Conclusions", "")
	d.addf("**Winner: %s**", winner)
	d.add("")

	for _, t := range s.Tables {
		d.addf("### %s", t.Heading)
		d.add("")
		d.table(t.Header, t.Rows)
		d.add("")
	}
	return d.String()
}

func guardedDiff(base, other, floor float64) string {
	return fmt.Sprintf("%+.1f%%", metrics.GuardedPercentDiff(base, other, floor))
}

func dollars(v float64) string {
	return fmt.Sprintf("$%.4f", v)
}

// pick names the side with the higher value, or "Tie".
func pick(a, b float64, aName, bName string) string {
	switch {
	case a > b:
		return aName
	case b > a:
		return bName
	}
	return "Tie"
}
