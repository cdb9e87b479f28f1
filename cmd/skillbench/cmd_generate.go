package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/claudekit/skillbench/internal/execution"
	"github.com/claudekit/skillbench/internal/generate"
	"github.com/claudekit/skillbench/internal/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var claudeModels = []string{"haiku", "sonnet", "opus"}

var (
	generateOutputDir   string
	generateDryRun      bool
	generateModel       string
	generateEngine      string
	generateTimeout     int
	generateInteractive bool
)

// newEngine is replaced in tests.
var newEngine = execution.New

// promptOverwrite is a test hook for replacing the overwrite confirmation.
var promptOverwrite = defaultPromptOverwrite

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <skill-path>",
		Short: "Generate test files for a skill with an LLM",
		Long: `Analyze a skill directory (SKILL.md, references/*.md, scripts/*.py) and ask
an LLM to write 2-4 tests for it. Each test is written as <name>-test.md with
YAML frontmatter, a prompt and a checklist of expected items.

Existing test files are skipped; with --interactive you are asked whether to
overwrite each one.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&generateOutputDir, "output", "o", "", "Output directory for test files (default: <skill>/tests/)")
	cmd.Flags().BoolVarP(&generateDryRun, "dry-run", "n", false, "Preview the prompt without generating files")
	cmd.Flags().StringVarP(&generateModel, "model", "m", "", "Model to use: haiku, sonnet or opus for the claude engine (default: defaults.model)")
	cmd.Flags().StringVar(&generateEngine, "engine", "", "Engine: claude, copilot or mock (default: defaults.engine)")
	cmd.Flags().IntVar(&generateTimeout, "timeout", 0, "Timeout in seconds for the model call (default: defaults.timeout)")
	cmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "Ask before overwriting existing test files")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadProjectConfig()
	if err != nil {
		return err
	}

	engineName := generateEngine
	if engineName == "" {
		engineName = cfg.Defaults.Engine
	}
	model := generateModel
	if model == "" {
		model = cfg.Defaults.Model
	}
	if (engineName == "" || engineName == execution.EngineClaude) && !slices.Contains(claudeModels, model) {
		return fmt.Errorf("invalid model %q for the claude engine (choose from haiku, sonnet, opus)", model)
	}
	timeout := generateTimeout
	if timeout <= 0 {
		timeout = cfg.Defaults.Timeout
	}

	engine, err := newEngine(engineName, model)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Shutdown(cmd.Context()); err != nil {
			slog.Warn("engine shutdown failed", "error", err)
		}
	}()

	out := cmd.OutOrStdout()
	g := &generate.Generator{Engine: engine, Out: out}
	if spinner.IsTerminal(out) {
		g.Spinner = spinner.Start
	}
	if generateInteractive {
		in := cmd.InOrStdin()
		g.Confirm = func(path string) (bool, error) {
			return promptOverwrite(in, out, fmt.Sprintf("Overwrite %s?", path))
		}
	}

	summary, err := g.Generate(cmd.Context(), generate.Options{
		SkillPath: args[0],
		OutputDir: generateOutputDir,
		DryRun:    generateDryRun,
		Model:     model,
		Timeout:   time.Duration(timeout) * time.Second,
	})
	if err != nil {
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("no test files were written")
	}
	return nil
}

func defaultPromptOverwrite(in io.Reader, out io.Writer, question string) (bool, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, nil
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Overwrite").
				Negative("Skip").
				Value(&confirmed),
		),
	).WithInput(in).WithOutput(out).Run()
	if err != nil {
		return false, fmt.Errorf("confirm overwrite: %w", err)
	}
	return confirmed, nil
}
