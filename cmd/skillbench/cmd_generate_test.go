package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/claudekit/skillbench/internal/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedSuite = `{"skill_name":"demo","tests":[` +
	`{"name":"demo-basics","test_type":"knowledge","concepts":["a"],"timeout":120,"prompt":"What?","expected_items":["x"]},` +
	`{"name":"demo-task","test_type":"task","concepts":["b"],"timeout":180,"prompt":"Do it.","expected_items":["y"]}]}`

func writeTestSkill(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "SKILL.md", "---\nname: demo\ndescription: A demo skill.\n---\n\n# Demo\n")
	return dir
}

func useMockEngine(t *testing.T, reply string) *execution.MockEngine {
	t.Helper()
	mock := execution.NewMockEngine("")
	mock.Reply = reply
	newEngine = func(name, model string) (execution.Engine, error) {
		return mock, nil
	}
	return mock
}

func TestGenerateCommand_RequiresArg(t *testing.T) {
	resetGlobals(t)

	_, err := run(t, newGenerateCommand())
	assert.Error(t, err)
}

func TestGenerateCommand_WritesTests(t *testing.T) {
	resetGlobals(t)
	skill := writeTestSkill(t)
	mock := useMockEngine(t, generatedSuite)

	out, err := run(t, newGenerateCommand(), skill, "-m", "opus", "--timeout", "30")
	require.NoError(t, err)

	assert.Contains(t, out, "Analyzing skill: demo")
	assert.Contains(t, out, "Summary: 2 created, 0 skipped")
	assert.FileExists(t, filepath.Join(skill, "tests", "demo-basics-test.md"))

	prompts := mock.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "opus", prompts[0].Model)
	assert.Equal(t, "30s", prompts[0].Timeout.String())
}

func TestGenerateCommand_DryRun(t *testing.T) {
	resetGlobals(t)
	skill := writeTestSkill(t)
	mock := useMockEngine(t, generatedSuite)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := run(t, newGenerateCommand(), skill, "-n", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Would write to: "+outDir)
	assert.Empty(t, mock.Prompts())
	assert.NoDirExists(t, outDir)
}

func TestGenerateCommand_InvalidClaudeModel(t *testing.T) {
	resetGlobals(t)

	_, err := run(t, newGenerateCommand(), writeTestSkill(t), "-m", "gpt-4o")
	require.ErrorContains(t, err, `invalid model "gpt-4o" for the claude engine`)
}

func TestGenerateCommand_OtherEngineAcceptsAnyModel(t *testing.T) {
	resetGlobals(t)
	skill := writeTestSkill(t)
	useMockEngine(t, generatedSuite)

	_, err := run(t, newGenerateCommand(), skill, "--engine", "copilot", "-m", "gpt-4o")
	require.NoError(t, err)
}

func TestGenerateCommand_NoTests(t *testing.T) {
	resetGlobals(t)
	useMockEngine(t, `{"skill_name":"demo","tests":[]}`)

	_, err := run(t, newGenerateCommand(), writeTestSkill(t))
	require.ErrorContains(t, err, "No tests generated")
}

func TestGenerateCommand_InteractiveOverwrite(t *testing.T) {
	resetGlobals(t)
	skill := writeTestSkill(t)
	writeFile(t, skill, "tests/demo-basics-test.md", "old")
	useMockEngine(t, generatedSuite)

	var asked []string
	promptOverwrite = func(in io.Reader, out io.Writer, question string) (bool, error) {
		asked = append(asked, question)
		return true, nil
	}

	_, err := run(t, newGenerateCommand(), skill, "-i")
	require.NoError(t, err)
	require.Len(t, asked, 1)
	assert.Contains(t, asked[0], "demo-basics-test.md")

	data, err := os.ReadFile(filepath.Join(skill, "tests", "demo-basics-test.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: demo-basics")
}

func TestDefaultPromptOverwrite_NotATerminal(t *testing.T) {
	ok, err := defaultPromptOverwrite(nil, io.Discard, "Overwrite?")
	require.NoError(t, err)
	assert.False(t, ok)
}
