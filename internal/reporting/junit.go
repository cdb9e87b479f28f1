package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/claudekit/skillbench/internal/concepts"
	"github.com/claudekit/skillbench/internal/verify"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one checklist run or one concept answer set.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one check or one task.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a failed check.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents a task whose response could not be read.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitSkipped marks a declared step that cannot be verified.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertVerifyToJUnit converts a checklist result. Declared steps with no
// check are reported as skipped so the totals match the accuracy
// denominator.
func ConvertVerifyToJUnit(r verify.Result, now time.Time) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      r.Checklist,
		Tests:     r.Total,
		Failures:  r.Failed,
		Skipped:   r.Total - r.Checked,
		Timestamp: now.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "workspace", Value: r.Workspace},
			{Name: "accuracy", Value: fmt.Sprintf("%.4f", r.Accuracy)},
		},
	}

	for _, o := range r.Checks {
		tc := JUnitTestCase{
			Name:      fmt.Sprintf("%s: %s", o.ID, o.Description),
			Classname: r.Checklist,
		}
		if !o.Passed {
			tc.Failure = &JUnitFailure{
				Message: o.Description,
				Type:    "CheckFailure",
				Body:    fmt.Sprintf("check %s failed in %s", o.ID, r.Workspace),
			}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	for i := r.Checked; i < r.Total; i++ {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      fmt.Sprintf("unverifiable step %d", i-r.Checked+1),
			Classname: r.Checklist,
			Skipped:   &JUnitSkipped{Message: "not verifiable from the workspace"},
		})
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// ConvertConceptsToJUnit converts a concept verification, one suite per
// answer set. A task fails when any concept is missing.
func ConvertConceptsToJUnit(v *concepts.Verification, now time.Time) *JUnitTestSuites {
	out := &JUnitTestSuites{}
	for _, k := range v.Kinds {
		suite := JUnitTestSuite{
			Name:      k.Kind,
			Tests:     len(k.Tasks),
			Timestamp: now.Format(time.RFC3339),
			Properties: []JUnitProperty{
				{Name: "average_accuracy", Value: fmt.Sprintf("%.4f", k.AverageAccuracy())},
			},
		}
		for _, t := range k.Tasks {
			tc := JUnitTestCase{Name: t.TaskName, Classname: k.Kind}
			switch {
			case t.Error != "":
				tc.Error = &JUnitError{Message: t.Error, Type: "MissingResponse"}
				suite.Errors++
			case len(t.Missing) > 0:
				tc.Failure = &JUnitFailure{
					Message: fmt.Sprintf("%s: %d/%d concepts", t.TaskName, t.Score, t.Total),
					Type:    "ConceptCoverage",
					Body:    formatMissing(t),
				}
				suite.Failures++
			}
			suite.TestCases = append(suite.TestCases, tc)
		}
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Errors += suite.Errors
		out.TestSuites = append(out.TestSuites, suite)
	}
	return out
}

func formatMissing(t concepts.TaskScore) string {
	var result string
	for _, m := range t.Missing {
		result += fmt.Sprintf("[MISSING] %s\n", m)
	}
	return result
}

// WriteJUnitXML writes suites as JUnit XML to the specified file path.
func WriteJUnitXML(suites *JUnitTestSuites, path string) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
