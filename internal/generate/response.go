package generate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/claudekit/skillbench/internal/validation"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Tried in order; the first candidate that is valid JSON wins.
var jsonPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```"),
	regexp.MustCompile("(?s)```\\s*\\n(.*?)\\n```"),
	regexp.MustCompile(`\{[\s\S]*\}`),
}

// TestSuite is the document the model is asked to produce.
type TestSuite struct {
	SkillName string     `mapstructure:"skill_name" json:"skill_name"`
	Tests     []TestSpec `mapstructure:"tests" json:"tests"`
}

// TestSpec describes one generated test file.
type TestSpec struct {
	Name          string   `mapstructure:"name" json:"name"`
	TestType      string   `mapstructure:"test_type" json:"test_type"`
	Concepts      []string `mapstructure:"concepts" json:"concepts"`
	Timeout       int      `mapstructure:"timeout" json:"timeout"`
	Prompt        string   `mapstructure:"prompt" json:"prompt"`
	ExpectedItems []string `mapstructure:"expected_items" json:"expected_items"`
}

// Filename is the file the test is written to.
func (t TestSpec) Filename() string {
	return t.Name + "-test.md"
}

// ExtractJSON finds a JSON document in a model reply: a ```json fence, a bare
// fence, or the outermost {...} span. It returns "" when no candidate parses.
func ExtractJSON(text string) string {
	for _, re := range jsonPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[0]
		if len(m) > 1 {
			candidate = m[1]
		}
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	return ""
}

// ParseResponse decodes a model reply into a TestSuite. Schema violations are
// returned as warnings rather than errors so that a mostly-valid reply still
// produces tests.
func ParseResponse(text string) (*TestSuite, []string, error) {
	raw := ExtractJSON(text)
	if raw == "" {
		trimmed := strings.TrimSpace(text)
		if !json.Valid([]byte(trimmed)) {
			return nil, nil, fmt.Errorf("could not parse JSON from response: %.300s", text)
		}
		raw = trimmed
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse JSON from response: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, nil, fmt.Errorf("expected a JSON object, got %T", doc)
	}

	warnings := validation.ValidateTests(doc)

	var suite TestSuite
	if err := mapstructure.Decode(doc, &suite); err != nil {
		return nil, warnings, fmt.Errorf("decoding tests: %w", err)
	}
	return &suite, warnings, nil
}
