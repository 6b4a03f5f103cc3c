package proc

import (
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignaler_IsAlive(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	s := NewSignaler()

	t.Run("own process is alive", func(t *testing.T) {
		assert.True(t, s.IsAlive(os.Getpid()))
	})

	t.Run("zero and negative pids are dead", func(t *testing.T) {
		assert.False(t, s.IsAlive(0))
		assert.False(t, s.IsAlive(-1))
	})

	t.Run("exited process is dead", func(t *testing.T) {
		cmd := exec.Command("true")
		require.NoError(t, cmd.Run())
		assert.False(t, s.IsAlive(cmd.Process.Pid))
	})
}

func TestSignaler_SuspendContinue(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	s := NewSignaler()

	cmd := exec.Command("sleep", "5")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()

	require.NoError(t, s.Suspend(pid))
	assert.True(t, s.IsAlive(pid), "stopped process still exists")
	require.NoError(t, s.Continue(pid))
	assert.True(t, s.IsAlive(pid))
}

func TestSignaler_Terminate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	s := NewSignaler()

	cmd := exec.Command("sleep", "5")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid

	require.NoError(t, s.Terminate(pid))
	_, _ = cmd.Process.Wait()

	// The pid table entry is released once the child is reaped.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.IsAlive(pid))
}

func TestSignaler_NoopOnZeroPid(t *testing.T) {
	s := NewSignaler()
	assert.NoError(t, s.Terminate(0))
	assert.NoError(t, s.Suspend(0))
	assert.NoError(t, s.Continue(0))
}
