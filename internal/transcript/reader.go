package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Line is the outcome of parsing one non-blank transcript line. Skipped is
// set when the line could not be decoded; Record is then the zero value.
type Line struct {
	Number  int
	Record  Record
	Skipped error
}

// OK reports whether the line produced a record.
func (l Line) OK() bool {
	return l.Skipped == nil
}

// Scan lazily yields one Line per non-blank line of r. There is no line
// length limit. A read error is reported as a final skipped Line.
func Scan(r io.Reader) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		br := bufio.NewReaderSize(r, 64*1024)
		n := 0
		for {
			raw, err := br.ReadBytes('\n')
			if len(raw) > 0 {
				n++
				if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
					if !yield(parseLine(n, trimmed)) {
						return
					}
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(Line{Number: n, Skipped: fmt.Errorf("reading transcript: %w", err)})
				}
				return
			}
		}
	}
}

func parseLine(n int, data []byte) Line {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Line{Number: n, Skipped: err}
	}
	return Line{Number: n, Record: rec}
}

// Open opens a transcript file, transparently decompressing .gz and .zst
// archives.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("opening gzip transcript %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("opening zstd transcript %s: %w", path, err)
		}
		rc := dec.IOReadCloser()
		return &stackedCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadFile reads every line of a transcript. A missing file is not an
// error: it yields no lines.
func ReadFile(path string) ([]Line, error) {
	rc, err := Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("transcript not found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer rc.Close() //nolint:errcheck

	var lines []Line
	for l := range Scan(rc) {
		lines = append(lines, l)
	}
	return lines, nil
}
