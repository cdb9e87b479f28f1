package verify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
)

// Checklist is an ordered list of checks evaluated against a workspace.
type Checklist struct {
	Name        string
	Description string
	// Base is the directory under the workspace the checks are relative to.
	Base string
	// DeclaredTotal, when set, is the denominator of Accuracy even though
	// fewer checks are verifiable.
	DeclaredTotal int
	// ResultKey names the check map in JSON output.
	ResultKey string
	Checks    []Check
}

// Outcome is the evaluated state of one check.
type Outcome struct {
	ID          string `json:"-"`
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
}

// Outcomes serialise as a JSON object keyed by check id, in check order.
type Outcomes []Outcome

// MarshalJSON implements json.Marshaler.
func (o Outcomes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, out := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(out.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result is the verification summary of one workspace.
type Result struct {
	Workspace string   `json:"workspace"`
	Checklist string   `json:"checklist"`
	Checks    Outcomes `json:"-"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	Total     int      `json:"total"`
	// Checked is the number of evaluated checks.
	Checked  int     `json:"checked"`
	Accuracy float64 `json:"accuracy"`

	resultKey string
}

// MarshalJSON writes the summary fields followed by the check map under
// the checklist's result key.
func (r Result) MarshalJSON() ([]byte, error) {
	type summary Result
	head, err := json.Marshal(summary(r))
	if err != nil {
		return nil, err
	}
	checks, err := json.Marshal(r.Checks)
	if err != nil {
		return nil, err
	}
	key := r.resultKey
	if key == "" {
		key = "checks"
	}
	k, _ := json.Marshal(key)

	out := slices.Clone(head[:len(head)-1])
	out = append(out, ',')
	out = append(out, k...)
	out = append(out, ':')
	out = append(out, checks...)
	return append(out, '}'), nil
}

// Complete reports whether every evaluated check passed. With a declared
// total larger than the verifiable checks, Accuracy stays below 1 even for
// a complete workspace.
func (r Result) Complete() bool {
	return r.Checked > 0 && r.Failed == 0
}

// Run evaluates the checklist against workspace. Every check is evaluated
// independently.
func (c Checklist) Run(workspace string) Result {
	root := workspace
	if c.Base != "" {
		root = filepath.Join(workspace, c.Base)
	}

	r := Result{Workspace: workspace, Checklist: c.Name, resultKey: c.ResultKey}
	for _, ch := range c.Checks {
		if ch.When != nil && !ch.When(root) {
			continue
		}
		ok := ch.Pass(root)
		r.Checks = append(r.Checks, Outcome{ID: ch.ID, Description: ch.Description, Passed: ok})
		if ok {
			r.Passed++
		} else {
			r.Failed++
		}
	}

	r.Checked = len(r.Checks)
	r.Total = r.Checked
	if c.DeclaredTotal > 0 {
		r.Total = c.DeclaredTotal
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Passed) / float64(r.Total)
	}
	return r
}

var builtins = map[string]Checklist{}

func register(c Checklist) {
	if _, dup := builtins[c.Name]; dup {
		panic(fmt.Sprintf("verify: duplicate checklist %q", c.Name))
	}
	builtins[c.Name] = c
}

// Lookup returns the built-in checklist with name.
func Lookup(name string) (Checklist, bool) {
	c, ok := builtins[name]
	return c, ok
}

// Names returns the built-in checklist names in lexical order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
