package generate

import (
	"fmt"
	"strings"
)

// FormatTestMD renders a test as a markdown file with YAML frontmatter, a
// prompt section and an expected-items checklist.
func FormatTestMD(t TestSpec) string {
	lines := []string{
		"---",
		"name: " + t.Name,
		"type: " + t.TestType,
		"concepts:",
	}
	for _, c := range t.Concepts {
		lines = append(lines, "  - "+c)
	}
	lines = append(lines,
		fmt.Sprintf("timeout: %d", t.Timeout),
		"---",
		"",
		"# Prompt",
		"",
		t.Prompt,
		"",
		"# Expected",
		"",
		"The response should cover:",
	)
	for _, item := range t.ExpectedItems {
		lines = append(lines, "- [ ] "+item)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
