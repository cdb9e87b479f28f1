package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claudekit/skillbench/internal/hooklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithInput(t *testing.T, input string, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestHookCommands(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()

	out := runWithInput(t, `{"session_id":"abc","tool_name":"Read","tool_input":{"file_path":"x"}}`, "hook", "tool", "--dir", dir)
	assert.Equal(t, "{\"continue\":true}\n", out)

	resetGlobals(t)
	out = runWithInput(t, `{"session_id":"abc"}`, "hook", "stop", "--dir", dir)
	assert.Equal(t, "{}\n", out)

	events, err := hooklog.ReadEvents(filepath.Join(dir, "abc.jsonl"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, hooklog.EventTool, events[0].Event)
	assert.Equal(t, "Read", events[0].Tool)
	assert.Equal(t, hooklog.EventSessionEnd, events[1].Event)
}

func TestHookCommand_MalformedInputStillResponds(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()

	out := runWithInput(t, "not json", "hook", "tool", "--dir", dir)
	assert.Equal(t, "{\"continue\":true}\n", out)
	assert.NoFileExists(t, filepath.Join(dir, hooklog.DefaultSession+".jsonl"))
}

func TestSessionCommands(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()

	out, err := run(t, newSessionCommand(), "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No session logs found.")

	path := writeFile(t, dir, "abc.jsonl", `{"event":"tool","tool":"Read","ts":1000,"input_size":2}
{"event":"session_end","ts":3000}
`)

	out, err = run(t, newSessionCommand(), "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "abc.jsonl")

	out, err = run(t, newSessionCommand(), "view", path)
	require.NoError(t, err)
	assert.Contains(t, out, "HOOK TIMELINE")
	assert.Contains(t, out, "Read")
}
