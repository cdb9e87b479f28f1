// Package concepts scores free-text answers by the expected concepts they
// mention.
package concepts

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/claudekit/skillbench/internal/benchmark"
	"github.com/claudekit/skillbench/internal/metrics"
	"github.com/claudekit/skillbench/internal/transcript"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrFileNotFound is the error text recorded for a task without a response.
const ErrFileNotFound = "File not found"

// Concept is found when any pattern occurs in the text, ignoring case.
type Concept struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Matches reports whether text mentions the concept.
func (c Concept) Matches(text string) bool {
	lower := strings.ToLower(text)
	return slices.ContainsFunc(c.Patterns, func(p string) bool {
		return strings.Contains(lower, strings.ToLower(p))
	})
}

type Task struct {
	ID       int       `yaml:"id"`
	Name     string    `yaml:"name"`
	Concepts []Concept `yaml:"concepts"`
}

// TaskSet is an ordered list of tasks. Task IDs are file indexes.
type TaskSet struct {
	Tasks []Task `yaml:"tasks"`
}

// Default returns the built-in context engineering task set.
func Default() (*TaskSet, error) {
	return Parse(defaultYAML)
}

// Load reads a task set from a YAML file.
func Load(path string) (*TaskSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading concept set: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML task set.
func Parse(data []byte) (*TaskSet, error) {
	var ts TaskSet
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("parsing concept set: %w", err)
	}
	if len(ts.Tasks) == 0 {
		return nil, fmt.Errorf("concept set has no tasks")
	}
	return &ts, nil
}

// Names returns the task names in order.
func (ts *TaskSet) Names() []string {
	names := make([]string, len(ts.Tasks))
	for i, t := range ts.Tasks {
		names[i] = t.Name
	}
	return names
}

// TaskScore is the concept coverage of one answer.
type TaskScore struct {
	TaskID   int      `json:"task_id"`
	TaskName string   `json:"task_name"`
	Found    []string `json:"concepts_found,omitempty"`
	Missing  []string `json:"concepts_missing,omitempty"`
	Total    int      `json:"total,omitempty"`
	Score    int      `json:"score"`
	Accuracy float64  `json:"accuracy"`
	Error    string   `json:"error,omitempty"`
}

// Score checks text against every concept of task.
func Score(task Task, text string) TaskScore {
	s := TaskScore{TaskID: task.ID, TaskName: task.Name, Total: len(task.Concepts)}
	for _, c := range task.Concepts {
		if c.Matches(text) {
			s.Found = append(s.Found, c.Name)
		} else {
			s.Missing = append(s.Missing, c.Name)
		}
	}
	s.Score = len(s.Found)
	if s.Total > 0 {
		s.Accuracy = float64(s.Score) / float64(s.Total)
	}
	return s
}

// KindResult holds the scores of one answer set, in task order.
type KindResult struct {
	Kind  string      `json:"kind"`
	Tasks []TaskScore `json:"tasks"`
}

// Overall sums found and possible concepts over tasks that were scored.
func (k KindResult) Overall() (found, possible int) {
	for _, t := range k.Tasks {
		if t.Error != "" {
			continue
		}
		found += t.Score
		possible += t.Total
	}
	return found, possible
}

// AverageAccuracy is the mean accuracy over all tasks, counting tasks
// without a response as 0.
func (k KindResult) AverageAccuracy() float64 {
	vals := make([]float64, len(k.Tasks))
	for i, t := range k.Tasks {
		vals[i] = t.Accuracy
	}
	return metrics.Mean(vals)
}

// Task returns the score of task id.
func (k KindResult) Task(id int) (TaskScore, bool) {
	i := slices.IndexFunc(k.Tasks, func(t TaskScore) bool { return t.TaskID == id })
	if i < 0 {
		return TaskScore{}, false
	}
	return k.Tasks[i], true
}

// Verification is the scored result of every answer set.
type Verification struct {
	Kinds []KindResult `json:"kinds"`
}

// Kind returns the result of one answer set.
func (v *Verification) Kind(kind string) (KindResult, bool) {
	i := slices.IndexFunc(v.Kinds, func(k KindResult) bool { return k.Kind == kind })
	if i < 0 {
		return KindResult{}, false
	}
	return v.Kinds[i], true
}

// VerifyDir scores <kind>-task-<id>.json in dir for every kind and task.
func VerifyDir(dir string, kinds []string, set *TaskSet) (*Verification, error) {
	v := &Verification{}
	for _, kind := range kinds {
		kr := KindResult{Kind: kind}
		for _, task := range set.Tasks {
			path := benchmark.ResultFile(dir, kind, task.ID)
			text, err := transcript.ResponseText(path)
			if err != nil {
				if os.IsNotExist(err) {
					kr.Tasks = append(kr.Tasks, TaskScore{TaskID: task.ID, TaskName: task.Name, Error: ErrFileNotFound})
					continue
				}
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			kr.Tasks = append(kr.Tasks, Score(task, text))
		}
		v.Kinds = append(v.Kinds, kr)
	}
	return v, nil
}
