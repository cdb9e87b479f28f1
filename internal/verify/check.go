// Package verify inspects a workspace file tree against fixed checklists of
// existence and content predicates.
package verify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
)

// Predicate reports whether a condition holds under root. Predicates never
// fail: anything missing or unreadable is false.
type Predicate func(root string) bool

// Check is one verifiable item of a checklist.
type Check struct {
	ID          string
	Description string
	// When, if set, gates the check: a check whose precondition is false is
	// left out of the result entirely.
	When Predicate
	Pass Predicate
}

// DirExists holds when rel is a directory.
func DirExists(rel string) Predicate {
	return func(root string) bool {
		info, err := os.Stat(filepath.Join(root, rel))
		return err == nil && info.IsDir()
	}
}

// FileExists holds when rel is a regular file.
func FileExists(rel string) Predicate {
	return func(root string) bool {
		info, err := os.Stat(filepath.Join(root, rel))
		return err == nil && info.Mode().IsRegular()
	}
}

// Exists holds when anything exists at rel.
func Exists(rel string) Predicate {
	return func(root string) bool {
		_, err := os.Lstat(filepath.Join(root, rel))
		return err == nil
	}
}

// NotExists holds when nothing exists at rel.
func NotExists(rel string) Predicate {
	e := Exists(rel)
	return func(root string) bool { return !e(root) }
}

// Contains holds when the file at rel contains substr.
func Contains(rel, substr string) Predicate {
	return func(root string) bool {
		content, ok := read(root, rel)
		return ok && strings.Contains(content, substr)
	}
}

// ContainsFold is Contains ignoring case.
func ContainsFold(rel, substr string) Predicate {
	substr = strings.ToLower(substr)
	return func(root string) bool {
		content, ok := read(root, rel)
		return ok && strings.Contains(strings.ToLower(content), substr)
	}
}

// ContainsAny holds when the file at rel contains at least one of substrs.
func ContainsAny(rel string, substrs ...string) Predicate {
	return func(root string) bool {
		content, ok := read(root, rel)
		if !ok {
			return false
		}
		return slices.ContainsFunc(substrs, func(s string) bool { return strings.Contains(content, s) })
	}
}

// JSONFieldEquals holds when the file at rel is a JSON object whose
// top-level key equals want. Numbers compare as float64.
func JSONFieldEquals(rel, key string, want any) Predicate {
	return func(root string) bool {
		content, ok := read(root, rel)
		if !ok {
			return false
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(content), &obj); err != nil {
			return false
		}
		got, ok := obj[key]
		return ok && reflect.DeepEqual(got, want)
	}
}

// All holds when every predicate holds.
func All(ps ...Predicate) Predicate {
	return func(root string) bool {
		for _, p := range ps {
			if !p(root) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one predicate holds.
func Any(ps ...Predicate) Predicate {
	return func(root string) bool {
		for _, p := range ps {
			if p(root) {
				return true
			}
		}
		return false
	}
}

func read(root, rel string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return "", false
	}
	return string(data), true
}
