package reporting

import (
	"fmt"
	"slices"
	"time"

	"github.com/claudekit/skillbench/internal/benchmark"
	"github.com/claudekit/skillbench/internal/metrics"
	"github.com/claudekit/skillbench/internal/transcript"
)

// BenchmarkInput is everything a method comparison report shows.
type BenchmarkInput struct {
	Profile benchmark.Profile
	Results *benchmark.Results
	Model   string
	Now     time.Time
	// Threshold is the comparable-difference percentage; 0 means
	// benchmark.ComparableThreshold.
	Threshold float64
}

var summaryLabels = map[benchmark.Dimension]string{
	benchmark.DimTokens:       "Tokens (avg±std)",
	benchmark.DimDuration:     "Duration (avg)",
	benchmark.DimTools:        "Tools (avg)",
	benchmark.DimSubagents:    "Subagents (avg)",
	benchmark.DimReviewCycles: "Review Cycles (avg)",
	benchmark.DimAccuracy:     "Accuracy",
}

type observation struct {
	comparable string
	better     string
}

var observations = map[benchmark.Dimension]observation{
	benchmark.DimTokens:       {"Token usage is comparable between methods", "%s is more token-efficient"},
	benchmark.DimDuration:     {"Execution time is comparable between methods", "%s executes faster"},
	benchmark.DimTools:        {"Tool usage is comparable between methods", "%s uses fewer tools"},
	benchmark.DimSubagents:    {"Subagent usage is similar", "%s uses fewer subagents"},
	benchmark.DimReviewCycles: {"Review cycles are comparable between methods", "%s needs fewer review cycles"},
	benchmark.DimAccuracy:     {"Accuracy is comparable between methods", "%s is more accurate"},
}

// RenderBenchmark renders a method comparison report. The output is a
// pure function of the input.
func RenderBenchmark(in BenchmarkInput) string {
	p := in.Profile
	threshold := in.Threshold
	if threshold == 0 {
		threshold = benchmark.ComparableThreshold
	}

	var d doc
	d.addf("# %s", p.Title)
	d.add("")
	d.addf("**Date:** %s", in.Now.Format("2006-01-02 15:04"))
	d.addf("**Model:** %s", in.Model)
	d.addf("**Task:** %s", p.Task)
	d.add("")

	renderSummary(&d, p, in.Results)
	renderDetails(&d, p, in.Results)

	comparisons := benchmark.CompareProfile(p, in.Results)
	if len(comparisons) == 0 {
		d.add("## Conclusions", "", "*Insufficient data for comparison*", "")
		return d.String()
	}
	for _, c := range comparisons {
		renderComparison(&d, p, in.Results, c, threshold, len(comparisons) > 1)
	}
	return d.String()
}

func renderSummary(d *doc, p benchmark.Profile, res *benchmark.Results) {
	d.add("## Summary", "")

	header := []string{"Method", "Runs"}
	for _, dim := range p.Summary {
		header = append(header, summaryLabels[dim])
	}

	var rows [][]string
	for _, m := range res.Methods {
		r := []string{m.Label, fmt.Sprint(len(m.Runs))}
		for _, dim := range p.Summary {
			if m.Empty() {
				r = append(r, "-")
				continue
			}
			r = append(r, summaryCell(dim, m))
		}
		rows = append(rows, r)
	}
	d.table(header, rows)
	d.add("")
}

func summaryCell(dim benchmark.Dimension, m *benchmark.MethodResults) string {
	s := m.Stats(dim)
	switch dim {
	case benchmark.DimTokens:
		return ThousandsF(s.Avg) + "±" + ThousandsF(s.Std)
	case benchmark.DimDuration:
		return Seconds(s.Avg)
	case benchmark.DimAccuracy:
		return Percent(s.Avg)
	}
	return fmt.Sprintf("%.0f", s.Avg)
}

func renderDetails(d *doc, p benchmark.Profile, res *benchmark.Results) {
	d.add("## Detailed Results", "")

	header := []string{"Run"}
	for _, dim := range p.Details {
		header = append(header, dim.Label())
	}

	for _, m := range res.Methods {
		if m.Empty() {
			continue
		}
		d.addf("### %s Runs", m.Label)
		d.add("")

		var rows [][]string
		for i, run := range m.Runs {
			r := []string{fmt.Sprint(p.RunNumber(run, i))}
			for _, dim := range p.Details {
				r = append(r, detailCell(dim, run))
			}
			rows = append(rows, r)
		}
		d.table(header, rows)
		d.add("")

		first := m.Runs[0].Metrics
		for _, dim := range p.Breakdowns {
			renderBreakdown(d, dim, first)
		}
	}
}

func detailCell(dim benchmark.Dimension, r benchmark.Run) string {
	switch dim {
	case benchmark.DimTokens:
		return Thousands(r.Metrics.TotalTokens)
	case benchmark.DimDuration:
		return Seconds(float64(r.Metrics.DurationMs))
	case benchmark.DimAccuracy:
		return Percent(r.Verification.Accuracy)
	}
	return fmt.Sprintf("%.0f", dim.Value(r))
}

func renderBreakdown(d *doc, dim benchmark.Dimension, m transcript.RunMetrics) {
	var title string
	var counts map[string]int
	var keys []string
	switch dim {
	case benchmark.DimTools:
		title, counts, keys = "Tool", m.Tools, m.SortedTools()
	case benchmark.DimSubagents:
		title, counts, keys = "Subagent", m.Subagents, m.SortedSubagents()
	default:
		return
	}
	if len(counts) == 0 {
		return
	}

	d.addf("**%s usage (Run 1):**", title)
	for _, k := range keys {
		d.addf("- %s: %d", k, counts[k])
	}
	d.add("")
}

func comparisonCell(dim benchmark.Dimension, v float64) string {
	switch dim {
	case benchmark.DimTokens:
		return ThousandsF(v)
	case benchmark.DimDuration:
		return Seconds(v)
	case benchmark.DimAccuracy:
		return Percent(v)
	}
	return fmt.Sprintf("%.0f", v)
}

// renderComparison writes the comparison table and conclusions of one
// pair. Columns follow profile method order.
func renderComparison(d *doc, p benchmark.Profile, res *benchmark.Results, c benchmark.Comparison, threshold float64, titled bool) {
	base, _ := res.Method(c.Base)
	other, _ := res.Method(c.Other)
	first, second := base, other
	if methodIndex(p, c.Other) < methodIndex(p, c.Base) {
		first, second = other, base
	}
	value := func(m *benchmark.MethodResults, r benchmark.ComparisonRow) float64 {
		if m == base {
			return r.Base
		}
		return r.Other
	}

	if titled {
		d.addf("## Comparison: %s vs %s", first.Label, second.Label)
	} else {
		d.add("## Comparison")
	}
	d.add("")

	var rows [][]string
	for _, r := range c.Rows {
		rows = append(rows, []string{
			r.Dimension.Label(),
			comparisonCell(r.Dimension, value(first, r)),
			comparisonCell(r.Dimension, value(second, r)),
			SignedDiff(r.Diff),
		})
	}
	d.table([]string{"Metric", first.Label, second.Label, "Diff"}, rows)
	d.add("")

	winner := "Tie"
	if !c.Tie() {
		w, _ := res.Method(c.Winner)
		winner = w.Label
	}
	d.add("## Conclusions", "")
	d.addf("**Winner: %s** (%d/%d metrics favor %s, %d/%d favor %s)",
		winner, c.Wins(first.Key), c.Votes, first.Label, c.Wins(second.Key), c.Votes, second.Label)
	d.add("")

	if spec, ok := p.Method(c.Winner); ok && !c.Tie() {
		d.add(spec.Rationale.Headline)
		for _, b := range spec.Rationale.Bullets {
			d.add("- " + b)
		}
	} else {
		d.add(p.TieText)
	}
	d.add("")

	d.add("**Observations:**")
	for _, dim := range p.Observations {
		r, ok := c.Row(dim)
		if !ok {
			r = benchmark.ComparisonRow{Dimension: dim, Base: base.Mean(dim), Other: other.Mean(dim)}
			r.Diff = metrics.PercentDiff(r.Base, r.Other)
		}
		obs, ok := observations[dim]
		if !ok {
			continue
		}
		if r.Comparable(threshold) {
			d.add("- " + obs.comparable)
			continue
		}
		better := other
		if dim.Favors(r.Base, r.Other) < 0 {
			better = base
		}
		d.add("- " + fmt.Sprintf(obs.better, better.Label))
	}
	d.add("")
}

func methodIndex(p benchmark.Profile, key string) int {
	return slices.IndexFunc(p.Methods, func(m benchmark.MethodSpec) bool { return m.Key == key })
}
