package generate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/claudekit/skillbench/internal/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(reply string) (*Generator, *execution.MockEngine, *bytes.Buffer) {
	engine := execution.NewMockEngine("sonnet")
	engine.Reply = reply
	var out bytes.Buffer
	return &Generator{Engine: engine, Out: &out}, engine, &out
}

func TestGenerate_WritesTests(t *testing.T) {
	skill := writeSkill(t, validSkillMD, nil)
	g, engine, out := newTestGenerator("```json\n" + suiteJSON + "\n```")

	summary, err := g.Generate(context.Background(), Options{SkillPath: skill, Model: "opus", Timeout: time.Minute})
	require.NoError(t, err)
	require.True(t, summary.OK())
	assert.Equal(t, []string{"demo-basics-test.md", "demo-task-test.md"}, summary.Created)
	assert.Equal(t, filepath.Join(skill, "tests"), summary.OutputDir)

	data, err := os.ReadFile(filepath.Join(skill, "tests", "demo-basics-test.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: demo-basics\ntype: knowledge\n")

	prompts := engine.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "opus", prompts[0].Model)
	assert.Equal(t, time.Minute, prompts[0].Timeout)
	assert.Contains(t, prompts[0].Prompt, "# Skill: test-skill")
	assert.True(t, strings.HasSuffix(prompts[0].Prompt, "\n\nJSON:"))

	assert.Contains(t, out.String(), "Analyzing skill: test-skill")
	assert.Contains(t, out.String(), "Created: demo-task-test.md")
	assert.Contains(t, out.String(), "Summary: 2 created, 0 skipped")
}

func TestGenerate_SkipsExisting(t *testing.T) {
	skill := writeSkill(t, validSkillMD, map[string]string{
		"tests/demo-basics-test.md": "keep me",
	})
	g, _, out := newTestGenerator(suiteJSON)

	summary, err := g.Generate(context.Background(), Options{SkillPath: skill})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-basics-test.md"}, summary.Skipped)
	assert.Equal(t, []string{"demo-task-test.md"}, summary.Created)
	assert.Contains(t, out.String(), "Skipping existing: demo-basics-test.md")

	data, err := os.ReadFile(filepath.Join(skill, "tests", "demo-basics-test.md"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestGenerate_ConfirmOverwrite(t *testing.T) {
	skill := writeSkill(t, validSkillMD, map[string]string{
		"tests/demo-basics-test.md": "old",
	})
	g, _, _ := newTestGenerator(suiteJSON)

	var asked []string
	g.Confirm = func(path string) (bool, error) {
		asked = append(asked, filepath.Base(path))
		return true, nil
	}

	summary, err := g.Generate(context.Background(), Options{SkillPath: skill})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-basics-test.md"}, asked)
	assert.Len(t, summary.Created, 2)
	assert.Empty(t, summary.Skipped)
}

func TestGenerate_CustomOutputDir(t *testing.T) {
	skill := writeSkill(t, validSkillMD, nil)
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	g, _, _ := newTestGenerator(suiteJSON)

	summary, err := g.Generate(context.Background(), Options{SkillPath: skill, OutputDir: outDir})
	require.NoError(t, err)
	assert.Equal(t, outDir, summary.OutputDir)
	assert.FileExists(t, filepath.Join(outDir, "demo-task-test.md"))
}

func TestGenerate_DryRun(t *testing.T) {
	big := strings.Repeat("x", 3000)
	skill := writeSkill(t, validSkillMD, map[string]string{"references/big.md": big})
	g, engine, out := newTestGenerator(suiteJSON)

	summary, err := g.Generate(context.Background(), Options{SkillPath: skill, DryRun: true})
	require.NoError(t, err)
	assert.True(t, summary.OK())
	assert.Empty(t, engine.Prompts())
	assert.Contains(t, out.String(), "DRY RUN - Would send prompt:")
	assert.Contains(t, out.String(), "...\n")
	assert.Contains(t, out.String(), "Would write to: "+filepath.Join(skill, "tests"))
	assert.NoDirExists(t, filepath.Join(skill, "tests"))
}

func TestGenerate_DryRunPreviewKeepsRunesWhole(t *testing.T) {
	skill := writeSkill(t, validSkillMD, map[string]string{"references/big.md": strings.Repeat("é", 3000)})
	g, _, out := newTestGenerator(suiteJSON)

	_, err := g.Generate(context.Background(), Options{SkillPath: skill, DryRun: true})
	require.NoError(t, err)

	const rule = "----------------------------------------\n"
	_, rest, ok := strings.Cut(out.String(), rule)
	require.True(t, ok)
	preview, _, ok := strings.Cut(rest, "\n"+rule)
	require.True(t, ok)

	require.True(t, utf8.ValidString(preview))
	assert.True(t, strings.HasSuffix(preview, "é..."))
	assert.Equal(t, dryRunPreview+3, utf8.RuneCountInString(preview))
}

func TestGenerate_NoTests(t *testing.T) {
	skill := writeSkill(t, validSkillMD, nil)
	g, _, _ := newTestGenerator(`{"skill_name":"demo","tests":[]}`)

	_, err := g.Generate(context.Background(), Options{SkillPath: skill})
	require.ErrorIs(t, err, ErrNoTests)
}

func TestGenerate_InvalidSkill(t *testing.T) {
	g, engine, _ := newTestGenerator(suiteJSON)

	_, err := g.Generate(context.Background(), Options{SkillPath: t.TempDir()})
	require.ErrorContains(t, err, "invalid skill: SKILL.md not found")
	assert.Empty(t, engine.Prompts())
}

func TestGenerate_EngineError(t *testing.T) {
	skill := writeSkill(t, validSkillMD, nil)
	g, engine, _ := newTestGenerator("")
	engine.Err = execution.ErrCLINotFound

	_, err := g.Generate(context.Background(), Options{SkillPath: skill})
	require.True(t, errors.Is(err, execution.ErrCLINotFound))
}

func TestGenerate_SkipsUnsafeNames(t *testing.T) {
	skill := writeSkill(t, validSkillMD, nil)
	g, _, _ := newTestGenerator(`{"skill_name":"demo","tests":[` +
		`{"name":"../evil","test_type":"task","concepts":[],"timeout":1,"prompt":"p","expected_items":[]},` +
		`{"name":"fine","test_type":"task","concepts":[],"timeout":1,"prompt":"p","expected_items":[]}]}`)

	summary, err := g.Generate(context.Background(), Options{SkillPath: skill})
	require.NoError(t, err)
	assert.Equal(t, []string{"fine-test.md"}, summary.Created)
}

func TestGenerate_Spinner(t *testing.T) {
	skill := writeSkill(t, validSkillMD, nil)
	g, _, _ := newTestGenerator(suiteJSON)

	started, stopped := 0, 0
	g.Spinner = func(w io.Writer, message string) func() {
		started++
		assert.Contains(t, message, "haiku")
		return func() { stopped++ }
	}

	_, err := g.Generate(context.Background(), Options{SkillPath: skill, Model: "haiku"})
	require.NoError(t, err)
	assert.Equal(t, 1, started)
	assert.Equal(t, 1, stopped)
}
