// Package projectconfig provides the ProjectConfig struct and loader for
// .skillbench.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/claudekit/skillbench/internal/benchmark"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".skillbench.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultReportsDir = "plans/reports/"
	DefaultHooksDir   = "/tmp/ck-benchmark"

	DefaultEngine  = "claude"
	DefaultModel   = "sonnet"
	DefaultTimeout = 180
	DefaultFormat  = "markdown"

	DefaultComparableThreshold = benchmark.ComparableThreshold
)

// PathsConfig holds input and output locations.
type PathsConfig struct {
	Reports string `yaml:"reports,omitempty"`
	// Transcripts is the primary transcript directory. Empty means the
	// Claude project directory of the working directory.
	Transcripts      string   `yaml:"transcripts,omitempty"`
	TranscriptSearch []string `yaml:"transcript_search,omitempty"`
	Hooks            string   `yaml:"hooks,omitempty"`
}

// DefaultsConfig holds default execution parameters.
type DefaultsConfig struct {
	Engine  string `yaml:"engine,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"`
	Format  string `yaml:"format,omitempty"`
}

// ThresholdsConfig holds report thresholds.
type ThresholdsConfig struct {
	// Comparable is the percentage difference below which two methods are
	// reported as comparable.
	Comparable float64 `yaml:"comparable,omitempty"`
}

// AzureBlobConfig locates the container reports are published to.
type AzureBlobConfig struct {
	AccountURL string `yaml:"account_url,omitempty"`
	Container  string `yaml:"container,omitempty"`
	Prefix     string `yaml:"prefix,omitempty"`
}

// PublishConfig holds report publishing settings.
type PublishConfig struct {
	AzureBlob *AzureBlobConfig `yaml:"azure_blob,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .skillbench.yaml.
type ProjectConfig struct {
	Paths      PathsConfig      `yaml:"paths,omitempty"`
	Defaults   DefaultsConfig   `yaml:"defaults,omitempty"`
	Thresholds ThresholdsConfig `yaml:"thresholds,omitempty"`
	Publish    PublishConfig    `yaml:"publish,omitempty"`
	// Profiles overrides or adds benchmark profiles, in the same layout as
	// the built-in profiles document.
	Profiles yaml.Node `yaml:"profiles,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Reports: DefaultReportsDir,
			Hooks:   DefaultHooksDir,
		},
		Defaults: DefaultsConfig{
			Engine:  DefaultEngine,
			Model:   DefaultModel,
			Timeout: DefaultTimeout,
			Format:  DefaultFormat,
		},
		Thresholds: ThresholdsConfig{
			Comparable: DefaultComparableThreshold,
		},
	}
}

// Load finds .skillbench.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// Find returns the path of the nearest config file above startDir, or
// os.ErrNotExist.
func Find(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", startDir, err)
	}
	dir := absDir

	for range 10 {
		p := filepath.Join(dir, FileName)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func findConfigFile(dir string) ([]byte, error) {
	p, err := Find(dir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", p, err)
	}
	return data, nil
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Reports != "" {
		dst.Paths.Reports = src.Paths.Reports
	}
	if src.Paths.Transcripts != "" {
		dst.Paths.Transcripts = src.Paths.Transcripts
	}
	if len(src.Paths.TranscriptSearch) > 0 {
		dst.Paths.TranscriptSearch = src.Paths.TranscriptSearch
	}
	if src.Paths.Hooks != "" {
		dst.Paths.Hooks = src.Paths.Hooks
	}

	// Defaults
	if src.Defaults.Engine != "" {
		dst.Defaults.Engine = src.Defaults.Engine
	}
	if src.Defaults.Model != "" {
		dst.Defaults.Model = src.Defaults.Model
	}
	if src.Defaults.Timeout != 0 {
		dst.Defaults.Timeout = src.Defaults.Timeout
	}
	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}

	if src.Thresholds.Comparable != 0 {
		dst.Thresholds.Comparable = src.Thresholds.Comparable
	}

	if src.Publish.AzureBlob != nil {
		dst.Publish.AzureBlob = src.Publish.AzureBlob
	}

	if !src.Profiles.IsZero() {
		dst.Profiles = src.Profiles
	}
}

// BenchmarkProfiles returns the built-in profiles with the configured
// overrides applied.
func (c *ProjectConfig) BenchmarkProfiles() (*benchmark.Profiles, error) {
	profiles, err := benchmark.BuiltinProfiles()
	if err != nil {
		return nil, err
	}
	if c.Profiles.IsZero() {
		return profiles, nil
	}

	raw, err := yaml.Marshal(&c.Profiles)
	if err != nil {
		return nil, fmt.Errorf("encoding profile overrides: %w", err)
	}
	overrides, err := benchmark.ParseProfiles(raw)
	if err != nil {
		return nil, fmt.Errorf("%s profiles: %w", FileName, err)
	}
	profiles.Merge(overrides)
	return profiles, nil
}

var nonProjectChars = regexp.MustCompile(`[^A-Za-z0-9-]`)

// TranscriptDir is the directory the Claude CLI keeps the transcripts of
// sessions started in cwd: the path with every other character replaced by
// "-", under ~/.claude/projects.
func TranscriptDir(home, cwd string) string {
	return filepath.Join(home, ".claude", "projects", nonProjectChars.ReplaceAllString(cwd, "-"))
}

// ResolveTranscripts returns the configured transcript directory, or the
// Claude project directory of cwd.
func (c *ProjectConfig) ResolveTranscripts(cwd string) string {
	if c.Paths.Transcripts != "" {
		return c.Paths.Transcripts
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return TranscriptDir(home, cwd)
}
