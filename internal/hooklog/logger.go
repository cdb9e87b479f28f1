package hooklog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultSession is used when the hook input carries no session id.
const DefaultSession = "default"

// JSONLogger appends events as newline-delimited JSON (NDJSON).
type JSONLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	path string
}

// NewJSONLogger opens path for appending. Parent directories are created
// automatically.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating hook log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening hook log: %w", err)
	}

	return &JSONLogger{
		file: f,
		enc:  json.NewEncoder(f),
		path: path,
	}, nil
}

// Log writes a single event as one JSON line.
func (l *JSONLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(event)
}

// Close closes the underlying file.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Path returns the file path of the log.
func (l *JSONLogger) Path() string {
	return l.path
}

// ErrInvalidSessionID is returned for session ids that would resolve
// outside the log directory.
var ErrInvalidSessionID = errors.New("invalid session id")

// SessionPath returns the log path of a session inside dir. Ids containing
// path separators or ".." are rejected.
func SessionPath(dir, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	if strings.ContainsAny(sessionID, `/\`) || strings.Contains(sessionID, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionID, sessionID)
	}
	return filepath.Join(dir, sessionID+".jsonl"), nil
}
