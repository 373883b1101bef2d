package sessionlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger defines the interface for session event logging.
type Logger interface {
	Log(event Event) error
	Close() error
}

// FileLogger appends events to a file as newline-delimited JSON. Writes are
// buffered; Close flushes before closing.
type FileLogger struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	path string
}

// Open creates a FileLogger on a fresh timestamped file inside dir, e.g.
// dir/20260301T120000Z-session.jsonl. The directory is created if absent.
func Open(dir string) (*FileLogger, error) {
	name := fmt.Sprintf("%s-session.jsonl", time.Now().UTC().Format("20060102T150405Z"))
	return OpenPath(filepath.Join(dir, name))
}

// OpenPath creates a FileLogger appending to the given path. Parent
// directories are created automatically.
func OpenPath(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating session log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}

	return &FileLogger{
		file: f,
		buf:  bufio.NewWriter(f),
		path: path,
	}, nil
}

// Log appends a single event as one JSON line.
func (l *FileLogger) Log(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding session event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.buf.Write(line); err != nil {
		return err
	}
	return l.buf.WriteByte('\n')
}

// Close flushes buffered events and closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.buf.Flush(); err != nil {
		l.file.Close() //nolint:errcheck
		return err
	}
	return l.file.Close()
}

// Path returns the file path of the session log.
func (l *FileLogger) Path() string {
	return l.path
}

// NopLogger discards all events. Used as the default when event logging is
// disabled.
type NopLogger struct{}

// Log is a no-op.
func (NopLogger) Log(Event) error { return nil }

// Close is a no-op.
func (NopLogger) Close() error { return nil }
