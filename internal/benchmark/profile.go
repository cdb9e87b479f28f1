// Package benchmark loads benchmark runs for named methods and aggregates
// them into comparable statistics.
package benchmark

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var builtinProfilesYAML []byte

// Rationale is the canned explanation printed when a method wins.
type Rationale struct {
	Headline string   `yaml:"headline"`
	Bullets  []string `yaml:"bullets"`
}

// MethodSpec describes one compared method.
type MethodSpec struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	// Prefix names the method's files: <prefix>-sessions.txt and the
	// {method} placeholder of per-run file templates.
	Prefix string `yaml:"prefix"`
	// FallbackKeywords match legacy hook log file names to this method.
	FallbackKeywords []string  `yaml:"fallback_keywords,omitempty"`
	Rationale        Rationale `yaml:"rationale"`
}

// SessionFile is the name of the method's session index.
func (m MethodSpec) SessionFile() string {
	return m.Prefix + "-sessions.txt"
}

// RunNumbering selects the run number shown in per-run tables.
type RunNumbering string

const (
	// NumberBySession shows the position of the run's session in the
	// session file, so dropped sessions leave gaps.
	NumberBySession RunNumbering = "session"
	// NumberSequential numbers the kept runs 1..n.
	NumberSequential RunNumbering = "sequential"
)

// Profile is a complete description of one method comparison: where its
// data lives, which metrics are shown and how the winner is decided.
type Profile struct {
	Name      string       `yaml:"-"`
	Title     string       `yaml:"title"`
	Task      string       `yaml:"task"`
	LogDir    string       `yaml:"log_dir"`
	ReportTag string       `yaml:"report_tag"`
	Baseline  string       `yaml:"baseline"`
	Methods   []MethodSpec `yaml:"methods"`

	Summary      []Dimension  `yaml:"summary"`
	Details      []Dimension  `yaml:"details"`
	Breakdowns   []Dimension  `yaml:"breakdowns"`
	Comparison   []Dimension  `yaml:"comparison"`
	Winner       []Dimension  `yaml:"winner"`
	Observations []Dimension  `yaml:"observations"`
	TieText      string       `yaml:"tie_text"`
	// RunNumbering defaults to NumberBySession.
	RunNumbering RunNumbering `yaml:"run_numbering,omitempty"`

	VerificationFile string   `yaml:"verification_file,omitempty"`
	WalltimeFile     string   `yaml:"walltime_file,omitempty"`
	LegacyLogs       string   `yaml:"legacy_logs,omitempty"`
	TranscriptSearch []string `yaml:"transcript_search,omitempty"`
}

// Method returns the spec with the given key.
func (p Profile) Method(key string) (MethodSpec, bool) {
	i := slices.IndexFunc(p.Methods, func(m MethodSpec) bool { return m.Key == key })
	if i < 0 {
		return MethodSpec{}, false
	}
	return p.Methods[i], true
}

// Validate checks that the profile is usable.
func (p Profile) Validate() error {
	if len(p.Methods) < 2 {
		return fmt.Errorf("profile %q: at least two methods are required", p.Name)
	}
	seen := map[string]bool{}
	for _, m := range p.Methods {
		if m.Key == "" || m.Prefix == "" {
			return fmt.Errorf("profile %q: every method needs a key and a prefix", p.Name)
		}
		if seen[m.Key] {
			return fmt.Errorf("profile %q: duplicate method %q", p.Name, m.Key)
		}
		seen[m.Key] = true
	}
	if _, ok := p.Method(p.Baseline); !ok {
		return fmt.Errorf("profile %q: baseline %q is not one of its methods", p.Name, p.Baseline)
	}
	switch p.RunNumbering {
	case "", NumberBySession, NumberSequential:
	default:
		return fmt.Errorf("profile %q: unknown run_numbering %q", p.Name, p.RunNumbering)
	}
	for _, dims := range [][]Dimension{p.Summary, p.Details, p.Breakdowns, p.Comparison, p.Winner, p.Observations} {
		for _, d := range dims {
			if !d.Valid() {
				return fmt.Errorf("profile %q: unknown metric %q", p.Name, d)
			}
		}
	}
	return nil
}

// RunNumber is the number shown for r, the pos-th kept run (0-based) of
// its method.
func (p Profile) RunNumber(r Run, pos int) int {
	if p.RunNumbering == NumberSequential {
		return pos + 1
	}
	return r.Index
}

// RunFile expands a per-run file template: {method} becomes the method
// prefix and {run} the 1-based run index.
func RunFile(template string, m MethodSpec, run int) string {
	return strings.NewReplacer("{method}", m.Prefix, "{run}", strconv.Itoa(run)).Replace(template)
}

// SuiteSide names one side of a task suite comparison.
type SuiteSide struct {
	Key           string `yaml:"key"`
	Label         string `yaml:"label"`
	Short         string `yaml:"short"`
	DetailHeading string `yaml:"detail_heading"`
}

// StaticTable is a fixed Markdown table appended to a report.
type StaticTable struct {
	Heading string     `yaml:"heading"`
	Header  []string   `yaml:"header"`
	Rows    [][]string `yaml:"rows"`
}

// SuiteProfile describes a per-task comparison of two skill variants that
// answered the same task list.
type SuiteProfile struct {
	Name       string        `yaml:"-"`
	Title      string        `yaml:"title"`
	Comparison string        `yaml:"comparison"`
	LogDir     string        `yaml:"log_dir"`
	ReportTag  string        `yaml:"report_tag"`
	Base       SuiteSide     `yaml:"base"`
	Other      SuiteSide     `yaml:"other"`
	Tables     []StaticTable `yaml:"tables"`
}

// Profiles is the set of known comparisons and suites.
type Profiles struct {
	Comparisons map[string]Profile      `yaml:"comparisons"`
	Suites      map[string]SuiteProfile `yaml:"suites"`
}

// BuiltinProfiles returns the profiles shipped with the binary.
func BuiltinProfiles() (*Profiles, error) {
	return ParseProfiles(builtinProfilesYAML)
}

// ParseProfiles decodes and validates a profiles document.
func ParseProfiles(data []byte) (*Profiles, error) {
	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	for name, prof := range p.Comparisons {
		prof.Name = name
		if err := prof.Validate(); err != nil {
			return nil, err
		}
		p.Comparisons[name] = prof
	}
	for name, s := range p.Suites {
		s.Name = name
		p.Suites[name] = s
	}
	return &p, nil
}

// Merge overlays the non-empty profiles of other onto p, replacing whole
// profiles by name.
func (p *Profiles) Merge(other *Profiles) {
	if other == nil {
		return
	}
	if p.Comparisons == nil {
		p.Comparisons = map[string]Profile{}
	}
	if p.Suites == nil {
		p.Suites = map[string]SuiteProfile{}
	}
	for name, prof := range other.Comparisons {
		p.Comparisons[name] = prof
	}
	for name, s := range other.Suites {
		p.Suites[name] = s
	}
}

// ComparisonNames returns the comparison profile names in lexical order.
func (p *Profiles) ComparisonNames() []string {
	names := make([]string, 0, len(p.Comparisons))
	for n := range p.Comparisons {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
