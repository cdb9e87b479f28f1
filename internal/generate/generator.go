package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claudekit/skillbench/internal/execution"
)

// dryRunPreview is how many characters of the prompt a dry run prints.
const dryRunPreview = 2000

// ErrNoTests is returned when the model reply contains no tests.
var ErrNoTests = errors.New("No tests generated")

// Options configures a single Generate call.
type Options struct {
	SkillPath string
	// OutputDir defaults to <SkillPath>/tests.
	OutputDir string
	DryRun    bool
	Model     string
	Timeout   time.Duration
}

// Summary reports what Generate did.
type Summary struct {
	OutputDir string
	DryRun    bool
	Created   []string
	Skipped   []string
	Warnings  []string
}

// OK reports whether the run produced or kept at least one test file. A dry
// run is always OK.
func (s *Summary) OK() bool {
	return s.DryRun || len(s.Created) > 0 || len(s.Skipped) > 0
}

// Generator asks an engine to write test files for a skill.
type Generator struct {
	Engine execution.Engine
	Out    io.Writer

	// Confirm is asked before overwriting an existing file. A nil Confirm
	// skips every existing file.
	Confirm func(path string) (bool, error)

	// Spinner, when set, is shown while waiting on the engine.
	Spinner func(w io.Writer, message string) (stop func())
}

// Generate validates the skill, prompts the engine and writes one
// <name>-test.md per generated test. A dry run prints the prompt instead of
// calling the engine.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Summary, error) {
	out := g.Out
	if out == nil {
		out = io.Discard
	}

	collector, err := NewCollector(opts.SkillPath)
	if err != nil {
		return nil, err
	}
	if err := collector.Validate(); err != nil {
		return nil, fmt.Errorf("invalid skill: %w", err)
	}

	skillName := collector.SkillName()
	fmt.Fprintf(out, "Analyzing skill: %s\n", skillName) //nolint:errcheck

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join(collector.SkillPath, "tests")
	}
	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	content, err := collector.FormatForPrompt()
	if err != nil {
		return nil, fmt.Errorf("collecting skill content: %w", err)
	}
	prompt := BuildPrompt(content)

	summary := &Summary{OutputDir: outDir, DryRun: opts.DryRun}

	if opts.DryRun {
		preview := prompt
		if r := []rune(preview); len(r) > dryRunPreview {
			preview = string(r[:dryRunPreview]) + "..."
		}
		fmt.Fprintln(out, "\nDRY RUN - Would send prompt:")           //nolint:errcheck
		fmt.Fprintln(out, "----------------------------------------") //nolint:errcheck
		fmt.Fprintln(out, preview)                                    //nolint:errcheck
		fmt.Fprintln(out, "----------------------------------------") //nolint:errcheck
		fmt.Fprintf(out, "\nWould write to: %s\n", outDir)            //nolint:errcheck
		return summary, nil
	}

	if g.Engine == nil {
		return nil, fmt.Errorf("no engine configured")
	}

	stop := func() {}
	if g.Spinner != nil {
		stop = g.Spinner(out, fmt.Sprintf("Invoking model (%s)...", opts.Model))
	}
	resp, err := g.Engine.Prompt(ctx, &execution.PromptRequest{
		Prompt:  prompt,
		Model:   opts.Model,
		Timeout: opts.Timeout,
		WorkDir: collector.SkillPath,
	})
	stop()
	if err != nil {
		return nil, err
	}
	slog.Debug("Generation reply received", "model", resp.Model, "durationMs", resp.DurationMs, "costUSD", resp.CostUSD)

	suite, warnings, err := ParseResponse(resp.Text)
	if err != nil {
		return nil, err
	}
	summary.Warnings = warnings
	for _, w := range warnings {
		slog.Warn("Generated tests do not match the schema", "problem", w)
	}

	if len(suite.Tests) == 0 {
		return nil, ErrNoTests
	}
	fmt.Fprintf(out, "Generated %d tests\n", len(suite.Tests)) //nolint:errcheck

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	for _, test := range suite.Tests {
		if err := sanitizeSkillName(test.Name); err != nil {
			slog.Warn("Skipping generated test", "error", err)
			continue
		}

		filename := test.Filename()
		path := filepath.Join(outDir, filename)

		if _, err := os.Stat(path); err == nil {
			overwrite, err := g.confirm(path)
			if err != nil {
				return nil, err
			}
			if !overwrite {
				fmt.Fprintf(out, "Skipping existing: %s\n", filename) //nolint:errcheck
				summary.Skipped = append(summary.Skipped, filename)
				continue
			}
		}

		if err := os.WriteFile(path, []byte(FormatTestMD(test)), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", filename, err)
		}
		fmt.Fprintf(out, "Created: %s\n", filename) //nolint:errcheck
		summary.Created = append(summary.Created, filename)
	}

	fmt.Fprintf(out, "\nSummary: %d created, %d skipped\n", len(summary.Created), len(summary.Skipped)) //nolint:errcheck
	fmt.Fprintf(out, "Output directory: %s\n", outDir)                                                  //nolint:errcheck

	return summary, nil
}

func (g *Generator) confirm(path string) (bool, error) {
	if g.Confirm == nil {
		return false, nil
	}
	return g.Confirm(path)
}
