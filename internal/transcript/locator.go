package transcript

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extensions tried for a session transcript, in order.
var Extensions = []string{".jsonl", ".jsonl.gz", ".jsonl.zst"}

// Locator finds the transcript file of a session id.
type Locator struct {
	// Dir is searched first.
	Dir string
	// Search holds glob patterns of alternative directories, for example
	// "/home/me/.claude/projects/*bench-greeting*". Patterns support "**".
	Search []string
}

// Find returns the transcript path for id and whether it exists.
func (l Locator) Find(id string) (string, bool) {
	if l.Dir != "" {
		if p, ok := firstExisting(l.Dir, id); ok {
			return p, true
		}
	}

	for _, pattern := range l.Search {
		dirs, err := doublestar.FilepathGlob(ExpandHome(pattern))
		if err != nil {
			slog.Warn("invalid transcript search pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, d := range dirs {
			if p, ok := firstExisting(d, id); ok {
				return p, true
			}
		}
	}

	return filepath.Join(l.Dir, id+Extensions[0]), false
}

func firstExisting(dir, id string) (string, bool) {
	for _, ext := range Extensions {
		p := filepath.Join(dir, id+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
