package hooklog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SessionFile represents a hook log file on disk.
type SessionFile struct {
	Path      string
	Name      string
	SessionID string
	Size      int64
	ModTime   time.Time
	NumEvents int
}

// ListSessions finds .jsonl hook logs in dir, newest first.
func ListSessions(dir string) ([]SessionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading hook log directory: %w", err)
	}

	var files []SessionFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, e.Name())
		n, _ := countLines(path) //nolint:errcheck
		files = append(files, SessionFile{
			Path:      path,
			Name:      e.Name(),
			SessionID: strings.TrimSuffix(e.Name(), ".jsonl"),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			NumEvents: n,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck
	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	return n, scanner.Err()
}

// ReadEvents parses all events from a hook log file, skipping blank and
// malformed lines.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hook log: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var events []Event
	scanner := bufio.NewScanner(f)
	// Increase buffer for large lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue // skip malformed lines
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hook log: %w", err)
	}
	return events, nil
}

// RenderTimeline writes a human-readable session timeline to w.
//
//nolint:errcheck // display-only writes; errors are not actionable
func RenderTimeline(w io.Writer, events []Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, " HOOK TIMELINE")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	start := events[0].Ts
	for _, ev := range events {
		ts := formatDuration(time.Duration(ev.Ts-start) * time.Millisecond)

		switch ev.Event {
		case EventTool:
			fmt.Fprintf(w, "[%s] 🔧 %s  input=%dB\n", ts, ev.Tool, ev.InputSize)
		case EventTokens:
			fmt.Fprintf(w, "[%s]    tokens in=%d out=%d total=%d\n", ts, ev.Input, ev.Output, ev.Total)
		case EventSessionEnd:
			fmt.Fprintf(w, "[%s] 🏁 Session end  context in=%d out=%d\n", ts, ev.ContextInput, ev.ContextOutput)
		default:
			fmt.Fprintf(w, "[%s] %s\n", ts, ev.Event)
		}
	}
	fmt.Fprintln(w)

	s := Summarize(events)
	fmt.Fprintf(w, "%d tool calls in %s\n", s.ToolCount, formatDuration(time.Duration(s.DurationMs)*time.Millisecond))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%6dms", d.Milliseconds())
	}
	return fmt.Sprintf("%6.1fs", d.Seconds())
}
