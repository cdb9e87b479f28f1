package projectconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "Paths.Reports", "plans/reports/", cfg.Paths.Reports)
	assertEqual(t, "Paths.Transcripts", "", cfg.Paths.Transcripts)
	assertEqual(t, "Paths.Hooks", "/tmp/ck-benchmark", cfg.Paths.Hooks)

	assertEqual(t, "Defaults.Engine", "claude", cfg.Defaults.Engine)
	assertEqual(t, "Defaults.Model", "sonnet", cfg.Defaults.Model)
	assertEqualInt(t, "Defaults.Timeout", 180, cfg.Defaults.Timeout)
	assertEqual(t, "Defaults.Format", "markdown", cfg.Defaults.Format)

	if cfg.Thresholds.Comparable != 10 {
		t.Errorf("Thresholds.Comparable = %v, want 10", cfg.Thresholds.Comparable)
	}
	if cfg.Publish.AzureBlob != nil {
		t.Error("Publish.AzureBlob should be nil by default")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
paths:
  reports: out/
  transcripts: /data/transcripts
  transcript_search:
    - "~/.claude/projects/*bench*"
  hooks: /var/hooks
defaults:
  engine: copilot
  model: opus
  timeout: 60
  format: json
thresholds:
  comparable: 5
publish:
  azure_blob:
    account_url: https://acct.blob.core.windows.net
    container: reports
    prefix: bench/
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	assertEqual(t, "Paths.Reports", "out/", cfg.Paths.Reports)
	assertEqual(t, "Paths.Transcripts", "/data/transcripts", cfg.Paths.Transcripts)
	assertEqualInt(t, "len(Paths.TranscriptSearch)", 1, len(cfg.Paths.TranscriptSearch))
	assertEqual(t, "Paths.Hooks", "/var/hooks", cfg.Paths.Hooks)
	assertEqual(t, "Defaults.Engine", "copilot", cfg.Defaults.Engine)
	assertEqual(t, "Defaults.Model", "opus", cfg.Defaults.Model)
	assertEqualInt(t, "Defaults.Timeout", 60, cfg.Defaults.Timeout)
	assertEqual(t, "Defaults.Format", "json", cfg.Defaults.Format)
	if cfg.Thresholds.Comparable != 5 {
		t.Errorf("Thresholds.Comparable = %v, want 5", cfg.Thresholds.Comparable)
	}
	if cfg.Publish.AzureBlob == nil {
		t.Fatal("Publish.AzureBlob is nil")
	}
	assertEqual(t, "Publish.AzureBlob.Container", "reports", cfg.Publish.AzureBlob.Container)
	assertEqual(t, "Publish.AzureBlob.Prefix", "bench/", cfg.Publish.AzureBlob.Prefix)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "defaults:\n  model: haiku\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Defaults.Model", "haiku", cfg.Defaults.Model)
	assertEqual(t, "Defaults.Engine", DefaultEngine, cfg.Defaults.Engine)
	assertEqual(t, "Paths.Reports", DefaultReportsDir, cfg.Paths.Reports)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Defaults.Model", DefaultModel, cfg.Defaults.Model)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "defaults: [\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "defaults:\n  engine: copilot\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Defaults.Engine", "copilot", cfg.Defaults.Engine)

	p, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Find", filepath.Join(root, FileName), p)
}

func TestFind_NotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Find error = %v, want os.ErrNotExist", err)
	}
}

func TestBenchmarkProfiles_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
profiles:
  comparisons:
    fileops:
      title: Custom
      log_dir: /elsewhere
      baseline: b
      methods:
        - {key: a, label: A, prefix: a}
        - {key: b, label: B, prefix: b}
      winner: [tokens]
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	profiles, err := cfg.BenchmarkProfiles()
	if err != nil {
		t.Fatal(err)
	}
	p := profiles.Comparisons["fileops"]
	assertEqual(t, "fileops.LogDir", "/elsewhere", p.LogDir)
	assertEqual(t, "fileops.Name", "fileops", p.Name)
	if _, ok := profiles.Comparisons["orchestration"]; !ok {
		t.Error("built-in orchestration profile missing after merge")
	}
}

func TestBenchmarkProfiles_InvalidOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
profiles:
  comparisons:
    broken:
      baseline: z
      methods:
        - {key: a, prefix: a}
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.BenchmarkProfiles(); err == nil {
		t.Fatal("expected error for invalid profile override")
	}
}

func TestBenchmarkProfiles_NoOverrides(t *testing.T) {
	profiles, err := New().BenchmarkProfiles()
	if err != nil {
		t.Fatal(err)
	}
	assertEqualInt(t, "len(Comparisons)", 2, len(profiles.Comparisons))
}

func TestTranscriptDir(t *testing.T) {
	got := TranscriptDir("/home/me", "/Users/duy/www/claudekit/skill_validation")
	assertEqual(t, "TranscriptDir", filepath.Join("/home/me", ".claude", "projects", "-Users-duy-www-claudekit-skill-validation"), got)

	cfg := New()
	cfg.Paths.Transcripts = "/fixed"
	assertEqual(t, "ResolveTranscripts", "/fixed", cfg.ResolveTranscripts("/anything"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}
