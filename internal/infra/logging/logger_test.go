package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFileWriter_LazyCreate(t *testing.T) {
	dataDir := t.TempDir()
	path := domain.LogPath(dataDir)
	w := NewFileWriter(path)
	defer func() { _ = w.Close() }()

	// Nothing on disk until the first write.
	_, err := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err))

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestFileWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squad.log")
	w := NewFileWriter(path)
	defer func() { _ = w.Close() }()

	_, err := w.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("two\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(content))
}

func TestFileWriter_CloseWithoutWrite(t *testing.T) {
	w := NewFileWriter(filepath.Join(t.TempDir(), "squad.log"))
	assert.NoError(t, w.Close())
}

func TestLogger_WritesTextRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squad.log")
	w := NewFileWriter(path)
	defer func() { _ = w.Close() }()

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("session started", "session", "a1b2c3d4", "backend", "claude-code")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(content)
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, `msg="session started"`)
	assert.Contains(t, line, "session=a1b2c3d4")
	assert.Contains(t, line, "backend=claude-code")
}

func TestLogger_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squad.log")
	w := NewFileWriter(path)
	defer func() { _ = w.Close() }()

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "warn message")
	assert.Contains(t, string(content), "error message")

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 2)
}

func TestNew_EmptyDataDir(t *testing.T) {
	logger, closer := New("", slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestNew_LogsToFile(t *testing.T) {
	dataDir := t.TempDir()
	logger, closer := New(dataDir, slog.LevelInfo)
	defer func() { _ = closer.Close() }()

	logger.Info("server listening", "socket", "/tmp/squad.sock")

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), `msg="server listening"`)
}
