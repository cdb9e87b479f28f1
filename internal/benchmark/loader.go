package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/claudekit/skillbench/internal/hooklog"
	"github.com/claudekit/skillbench/internal/transcript"
)

// LoadSessionIDs reads one session id per line, ignoring blank lines. A
// missing file yields no ids.
func LoadSessionIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session index: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// accuracyObject finds a flat JSON object with an "accuracy" key inside
// output that may contain other text.
var accuracyObject = regexp.MustCompile(`(?s)\{[^{}]*"accuracy"[^{}]*\}`)

// LoadVerification reads a verification summary. Missing or unreadable
// files yield the zero Verification.
func LoadVerification(path string) Verification {
	data, err := os.ReadFile(path)
	if err != nil {
		return Verification{}
	}

	var v Verification
	if m := accuracyObject.Find(data); m != nil {
		if err := json.Unmarshal(m, &v); err == nil {
			return v
		}
		v = Verification{}
	}
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Debug("unparseable verification file", "path", path, "error", err)
		return Verification{}
	}
	return v
}

// LoadWalltime reads a whole number of seconds, or 0.
func LoadWalltime(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return n
}

// Collector gathers the runs of a profile from its log directory.
type Collector struct {
	Profile   Profile
	LogDir    string
	Locator   transcript.Locator
	Extractor transcript.ExtractorConfig
}

// NewCollector returns a collector reading p's own log directory.
func NewCollector(p Profile, locator transcript.Locator) *Collector {
	return &Collector{
		Profile:   p,
		LogDir:    p.LogDir,
		Locator:   locator,
		Extractor: transcript.DefaultExtractorConfig(),
	}
}

// Collect loads every method's runs. Runs whose transcript has no token
// usage are dropped. A missing log directory yields empty results.
func (c *Collector) Collect() (*Results, error) {
	res := NewResults(c.Profile)

	if info, err := os.Stat(c.LogDir); err != nil || !info.IsDir() {
		slog.Warn("log directory not found", "path", c.LogDir)
		return res, nil
	}

	for i, spec := range c.Profile.Methods {
		runs, err := c.collectMethod(spec)
		if err != nil {
			return nil, err
		}
		res.Methods[i].Runs = runs
	}

	if c.Profile.LegacyLogs != "" {
		if err := c.collectLegacy(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Collector) collectMethod(spec MethodSpec) ([]Run, error) {
	ids, err := LoadSessionIDs(filepath.Join(c.LogDir, spec.SessionFile()))
	if err != nil {
		return nil, err
	}

	var runs []Run
	for i, id := range ids {
		n := i + 1
		path, ok := c.Locator.Find(id)
		if !ok {
			slog.Info("transcript not found", "method", spec.Key, "session", id)
			continue
		}
		m, err := transcript.ExtractFile(path, c.Extractor)
		if err != nil {
			slog.Warn("failed to parse transcript", "session", id, "error", err)
			continue
		}
		if m.TotalTokens == 0 {
			slog.Debug("dropping run without token usage", "method", spec.Key, "session", id)
			continue
		}

		run := Run{
			Method:    spec.Key,
			Index:     n,
			Label:     fmt.Sprintf("%s-%d", spec.Prefix, n),
			SessionID: id,
			Source:    SourceTranscript,
			Metrics:   m,
		}
		if c.Profile.VerificationFile != "" {
			run.Verification = LoadVerification(filepath.Join(c.LogDir, RunFile(c.Profile.VerificationFile, spec, n)))
		}
		if c.Profile.WalltimeFile != "" {
			run.WalltimeS = LoadWalltime(filepath.Join(c.LogDir, RunFile(c.Profile.WalltimeFile, spec, n)))
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// collectLegacy adds runs from hook logs whose file name contains one of a
// method's fallback keywords. The first matching method wins.
func (c *Collector) collectLegacy(res *Results) error {
	matches, err := doublestar.FilepathGlob(filepath.Join(c.LogDir, c.Profile.LegacyLogs))
	if err != nil {
		return fmt.Errorf("listing hook logs: %w", err)
	}
	slices.Sort(matches)

	for _, path := range matches {
		name := filepath.Base(path)
		spec, ok := c.legacyMethod(strings.ToLower(name))
		if !ok {
			continue
		}
		target, _ := res.Method(spec.Key)
		if slices.ContainsFunc(target.Runs, func(r Run) bool { return r.Label == name }) {
			continue
		}

		events, err := hooklog.ReadEvents(path)
		if err != nil {
			slog.Warn("failed to read hook log", "path", path, "error", err)
			continue
		}
		if len(events) == 0 {
			continue
		}
		s := hooklog.Summarize(events)
		target.Runs = append(target.Runs, Run{
			Method: spec.Key,
			Index:  len(target.Runs) + 1,
			Label:  name,
			Source: SourceHookLog,
			Metrics: transcript.RunMetrics{
				DurationMs: s.DurationMs,
				Tools:      s.ToolBreakdown,
			},
		})
	}
	return nil
}

func (c *Collector) legacyMethod(name string) (MethodSpec, bool) {
	for _, m := range c.Profile.Methods {
		for _, kw := range m.FallbackKeywords {
			if strings.Contains(name, strings.ToLower(kw)) {
				return m, true
			}
		}
	}
	return MethodSpec{}, false
}
