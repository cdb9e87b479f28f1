// Package reporting renders benchmark results as Markdown, HTML and JUnit
// XML.
package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// width measures display cells independent of the terminal locale.
var width = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Thousands formats n with comma grouping.
func Thousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// ThousandsF rounds v half to even and formats it with comma grouping.
func ThousandsF(v float64) string {
	return Thousands(int64(math.RoundToEven(v)))
}

// Seconds formats milliseconds as seconds with one decimal.
func Seconds(ms float64) string {
	return fmt.Sprintf("%.1fs", ms/1000)
}

// Percent formats a fraction as a percentage with one decimal.
func Percent(frac float64) string {
	return fmt.Sprintf("%.1f%%", frac*100)
}

// SignedDiff formats a percentage difference with a "+" for increases.
func SignedDiff(d float64) string {
	sign := ""
	if d > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, d)
}

// ReportFilename is benchmark-<yymmdd-HHMM>[-<model>]-<tag>.md.
func ReportFilename(now time.Time, model, tag string) string {
	parts := []string{"benchmark", now.Format("060102-1504")}
	if model != "" {
		parts = append(parts, model)
	}
	parts = append(parts, tag)
	return strings.Join(parts, "-") + ".md"
}

// doc accumulates report lines. String joins them with newlines.
type doc struct {
	lines []string
}

func (d *doc) add(lines ...string) {
	d.lines = append(d.lines, lines...)
}

func (d *doc) addf(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *doc) table(header []string, rows [][]string) {
	d.add(tableLines(header, rows)...)
}

func (d *doc) String() string {
	return strings.Join(d.lines, "\n")
}

// tableLines renders a Markdown table whose separator row spans each
// header cell plus its padding.
func tableLines(header []string, rows [][]string) []string {
	out := make([]string, 0, len(rows)+2)
	out = append(out, row(header))

	var sep strings.Builder
	sep.WriteByte('|')
	for _, h := range header {
		sep.WriteString(strings.Repeat("-", width.StringWidth(h)+2))
		sep.WriteByte('|')
	}
	out = append(out, sep.String())

	for _, r := range rows {
		out = append(out, row(r))
	}
	return out
}

func row(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
