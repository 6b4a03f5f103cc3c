package executor

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	client := NewClient()

	t.Run("executes simple echo command", func(t *testing.T) {
		cmd := domain.NewShellCommand("echo hello", "")
		output, err := client.Execute(cmd)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(output))
	})

	t.Run("executes command in specified directory", func(t *testing.T) {
		dir := t.TempDir()
		cmd := domain.NewShellCommand("pwd", dir)
		output, err := client.Execute(cmd)
		require.NoError(t, err)
		assert.Contains(t, strings.TrimSpace(string(output)), dir)
	})

	t.Run("returns error for non-existent command", func(t *testing.T) {
		cmd := domain.CommandSpec{Program: "nonexistent-command-xyz"}
		_, err := client.Execute(cmd)
		require.Error(t, err)
	})

	t.Run("returns error for failing command", func(t *testing.T) {
		cmd := domain.NewShellCommand("exit 1", "")
		_, err := client.Execute(cmd)
		require.Error(t, err)
	})

	t.Run("captures stderr in output", func(t *testing.T) {
		cmd := domain.NewShellCommand("echo error >&2", "")
		output, err := client.Execute(cmd)
		require.NoError(t, err)
		assert.Equal(t, "error\n", string(output))
	})

	t.Run("passes extra environment", func(t *testing.T) {
		cmd := domain.NewShellCommand("echo $SQUAD_TEST_VAR", "")
		cmd.Env = map[string]string{"SQUAD_TEST_VAR": "wired"}
		output, err := client.Execute(cmd)
		require.NoError(t, err)
		assert.Equal(t, "wired\n", string(output))
	})
}

func TestClient_ExecuteCombined(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	client := NewClient()

	t.Run("merges stdout and stderr", func(t *testing.T) {
		cmd := domain.NewShellCommand("echo out; echo err >&2", "")
		output, err := client.ExecuteCombined(context.Background(), cmd)
		require.NoError(t, err)
		assert.Contains(t, string(output), "out")
		assert.Contains(t, string(output), "err")
	})

	t.Run("kills the process when the context expires", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		cmd := domain.NewShellCommand("echo partial; sleep 10", "")
		output, err := client.ExecuteCombined(ctx, cmd)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Contains(t, string(output), "partial")
	})
}

func TestClient_Start(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	client := NewClient()

	t.Run("returns the pid of a detached process", func(t *testing.T) {
		pid, err := client.Start(domain.NewShellCommand("sleep 0.1", ""))
		require.NoError(t, err)
		assert.Greater(t, pid, 0)
	})

	t.Run("fails for a missing program", func(t *testing.T) {
		_, err := client.Start(domain.CommandSpec{Program: "nonexistent-command-xyz"})
		require.Error(t, err)
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient()
	assert.NotNil(t, client)
}
