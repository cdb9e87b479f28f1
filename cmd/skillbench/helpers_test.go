package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 9, 14, 5, 0, 0, time.UTC)

// resetGlobals zeroes the package-level flag vars so prior tests don't leak.
func resetGlobals(t *testing.T) {
	t.Helper()

	analyzeLogDir, analyzeReportsDir, analyzeTranscriptsDir = "", "", ""
	analyzeModel, analyzeFormat = "", ""
	analyzeHTML, analyzePublish, analyzeNoWrite = false, false, false

	contextLogDir, contextReportsDir, contextConcepts, contextFormat = "", "", "", ""
	contextHTML, contextPublish, contextNoWrite = false, false, false

	conceptsFile, conceptsKinds, conceptsJUnit, conceptsInterpret = "", nil, "", false

	verifyFormat, verifyJUnit, verifyInterpret = "json", "", false

	generateOutputDir, generateDryRun, generateModel, generateEngine = "", false, "", ""
	generateTimeout, generateInteractive = 0, false

	hookDir, sessionDir = "", ""

	origNow, origEngine, origPrompt, origPublisher := nowFunc, newEngine, promptOverwrite, newPublisher
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		nowFunc, newEngine, promptOverwrite, newPublisher = origNow, origEngine, origPrompt, origPublisher
	})

	// An empty working directory keeps a developer's .skillbench.yaml out
	// of the tests.
	chdir(t, t.TempDir())
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Logf("warning: failed to restore working directory: %v", err)
		}
	})
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
