// Package logging builds the server logger. Records go to stderr and
// to a log file under the data directory (<data>/logs/squad.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/runoshun/squad/internal/domain"
)

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FileWriter is an io.Writer that opens its file lazily on first
// write, creating parent directories as needed. Writes are serialized.
// Fields are ordered to minimize memory padding.
type FileWriter struct {
	file *os.File
	path string
	mu   sync.Mutex
}

// NewFileWriter creates a writer for the given path. The file is not
// opened until the first write.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Write appends p to the log file.
func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
			return 0, fmt.Errorf("create logs directory: %w", err)
		}
		// G302: Log files are append-only and need read access by repository users
		f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
		if err != nil {
			return 0, fmt.Errorf("open log file: %w", err)
		}
		w.file = f
	}
	return w.file.Write(p)
}

// Close closes the underlying file if it was opened.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the server logger writing to stderr and the data
// directory log file. The returned closer owns the file handle.
// An empty dataDir logs to stderr only.
func New(dataDir string, level slog.Level) (*slog.Logger, io.Closer) {
	if dataDir == "" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		return slog.New(handler), nopCloser{}
	}

	w := NewFileWriter(domain.LogPath(dataDir))
	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, w), &slog.HandlerOptions{Level: level})
	return slog.New(handler), w
}
