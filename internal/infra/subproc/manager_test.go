package subproc

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMux is a hand-rolled domain.Multiplexer.
// Fields are ordered to minimize memory padding.
type fakeMux struct {
	spawnErr     error
	captureErr   error
	sendErr      error
	killErr      error
	spawnSession string
	spawnWindow  string
	spawnSpec    domain.CommandSpec
	captureText  string
	sentTarget   string
	sentText     string
	killedWindow string
	paneID       string
	pid          int
	killCalled   bool
}

func (f *fakeMux) HasSession(context.Context, string) (bool, error) { return false, nil }

func (f *fakeMux) SpawnWindow(_ context.Context, session, window string, spec domain.CommandSpec) (string, int, error) {
	f.spawnSession = session
	f.spawnWindow = window
	f.spawnSpec = spec
	if f.spawnErr != nil {
		return "", 0, f.spawnErr
	}
	return f.paneID, f.pid, nil
}

func (f *fakeMux) CapturePane(_ context.Context, _ string, _ int) (string, error) {
	return f.captureText, f.captureErr
}

func (f *fakeMux) SendKeys(_ context.Context, target, text string) error {
	f.sentTarget = target
	f.sentText = text
	return f.sendErr
}

func (f *fakeMux) KillWindow(_ context.Context, _, window string) error {
	f.killCalled = true
	f.killedWindow = window
	return f.killErr
}

func (f *fakeMux) KillSession(context.Context, string) error { return nil }

// fakeSignals is a hand-rolled ProcessSignaler.
// Fields are ordered to minimize memory padding.
type fakeSignals struct {
	terminated []int
	suspended  []int
	continued  []int
	alive      bool
}

func (f *fakeSignals) IsAlive(int) bool { return f.alive }

func (f *fakeSignals) Terminate(pid int) error {
	f.terminated = append(f.terminated, pid)
	return nil
}

func (f *fakeSignals) Suspend(pid int) error {
	f.suspended = append(f.suspended, pid)
	return nil
}

func (f *fakeSignals) Continue(pid int) error {
	f.continued = append(f.continued, pid)
	return nil
}

// fakeExecutor is a hand-rolled domain.CommandExecutor.
type fakeExecutor struct {
	startErr error
	startPid int
}

func (f *fakeExecutor) Execute(domain.CommandSpec) ([]byte, error) { return nil, nil }
func (f *fakeExecutor) ExecuteCombined(context.Context, domain.CommandSpec) ([]byte, error) {
	return nil, nil
}
func (f *fakeExecutor) Start(domain.CommandSpec) (int, error) {
	if f.startErr != nil {
		return 0, f.startErr
	}
	return f.startPid, nil
}

func TestManager_Spawn_Tmux(t *testing.T) {
	// Setup
	mux := &fakeMux{paneID: "%5", pid: 1234}
	m := NewManager(mux, &fakeSignals{}, &fakeExecutor{}, "sq", true)

	// Execute
	res := m.Spawn(context.Background(), "claude-code-a1b2c3d4", domain.NewShellCommand("claude", "/work"))

	// Assert
	require.True(t, res.Success)
	assert.Equal(t, "sq-claude-code-a1b2c3d4", res.Attachment.TmuxSession)
	assert.Equal(t, "main", res.Attachment.TmuxWindow)
	assert.Equal(t, "%5", res.Attachment.PaneID)
	assert.Equal(t, 1234, res.Attachment.PID)
	assert.Equal(t, "sq-claude-code-a1b2c3d4", mux.spawnSession)
}

func TestManager_Spawn_TmuxFailure(t *testing.T) {
	// Setup
	mux := &fakeMux{spawnErr: errors.New("tmux not found")}
	m := NewManager(mux, &fakeSignals{}, &fakeExecutor{}, "sq", true)

	// Execute
	res := m.Spawn(context.Background(), "x", domain.NewShellCommand("claude", ""))

	// Assert: failure is data, not an error
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "tmux not found")
	assert.False(t, res.Attachment.HasPane())
}

func TestManager_Spawn_Direct(t *testing.T) {
	// Setup: tmux disabled falls back to a detached process
	exec := &fakeExecutor{startPid: 9876}
	m := NewManager(&fakeMux{}, &fakeSignals{}, exec, "sq", false)

	// Execute
	res := m.Spawn(context.Background(), "x", domain.NewShellCommand("claude", ""))

	// Assert
	require.True(t, res.Success)
	assert.Equal(t, 9876, res.Attachment.PID)
	assert.Empty(t, res.Attachment.TmuxSession)
	assert.False(t, res.Attachment.HasPane())
}

func TestManager_Spawn_DirectFailure(t *testing.T) {
	exec := &fakeExecutor{startErr: errors.New("no such file")}
	m := NewManager(&fakeMux{}, &fakeSignals{}, exec, "sq", false)

	res := m.Spawn(context.Background(), "x", domain.NewShellCommand("claude", ""))

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no such file")
}

func TestManager_Stop(t *testing.T) {
	att := domain.Attachment{TmuxSession: "sq-x", TmuxWindow: "main", PaneID: "%1", PID: 100}

	t.Run("signals live process and kills window", func(t *testing.T) {
		mux := &fakeMux{}
		sig := &fakeSignals{alive: true}
		m := NewManager(mux, sig, &fakeExecutor{}, "sq", true)

		require.NoError(t, m.Stop(context.Background(), att))
		assert.Equal(t, []int{100}, sig.terminated)
		assert.True(t, mux.killCalled)
	})

	t.Run("skips signal for dead process", func(t *testing.T) {
		mux := &fakeMux{}
		sig := &fakeSignals{alive: false}
		m := NewManager(mux, sig, &fakeExecutor{}, "sq", true)

		require.NoError(t, m.Stop(context.Background(), att))
		assert.Empty(t, sig.terminated)
		assert.True(t, mux.killCalled, "window is removed even when the process already exited")
	})

	t.Run("no pane means nothing to kill", func(t *testing.T) {
		mux := &fakeMux{}
		sig := &fakeSignals{alive: true}
		m := NewManager(mux, sig, &fakeExecutor{}, "sq", true)

		require.NoError(t, m.Stop(context.Background(), domain.Attachment{PID: 100}))
		assert.Equal(t, []int{100}, sig.terminated)
		assert.False(t, mux.killCalled)
	})
}

func TestManager_PauseResume(t *testing.T) {
	att := domain.Attachment{PID: 100}

	t.Run("pause live process", func(t *testing.T) {
		sig := &fakeSignals{alive: true}
		m := NewManager(&fakeMux{}, sig, &fakeExecutor{}, "sq", true)

		assert.True(t, m.Pause(att))
		assert.Equal(t, []int{100}, sig.suspended)
	})

	t.Run("pause dead process is a no-op", func(t *testing.T) {
		sig := &fakeSignals{alive: false}
		m := NewManager(&fakeMux{}, sig, &fakeExecutor{}, "sq", true)

		assert.False(t, m.Pause(att))
		assert.Empty(t, sig.suspended)
	})

	t.Run("resume live process", func(t *testing.T) {
		sig := &fakeSignals{alive: true}
		m := NewManager(&fakeMux{}, sig, &fakeExecutor{}, "sq", true)

		assert.True(t, m.Resume(att))
		assert.Equal(t, []int{100}, sig.continued)
	})

	t.Run("resume dead process is a no-op", func(t *testing.T) {
		sig := &fakeSignals{alive: false}
		m := NewManager(&fakeMux{}, sig, &fakeExecutor{}, "sq", true)

		assert.False(t, m.Resume(att))
		assert.Empty(t, sig.continued)
	})
}

func TestManager_CaptureOutput(t *testing.T) {
	t.Run("captures from the pane", func(t *testing.T) {
		mux := &fakeMux{captureText: "agent output"}
		m := NewManager(mux, &fakeSignals{}, &fakeExecutor{}, "sq", true)

		att := domain.Attachment{TmuxSession: "sq-x", PaneID: "%1"}
		out, err := m.CaptureOutput(context.Background(), att, 100)
		require.NoError(t, err)
		assert.Equal(t, "agent output", out)
	})

	t.Run("no pane returns empty without error", func(t *testing.T) {
		m := NewManager(&fakeMux{}, &fakeSignals{}, &fakeExecutor{}, "sq", true)

		out, err := m.CaptureOutput(context.Background(), domain.Attachment{PID: 1}, 100)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestManager_SendKeys(t *testing.T) {
	t.Run("sends to the pane", func(t *testing.T) {
		mux := &fakeMux{}
		m := NewManager(mux, &fakeSignals{}, &fakeExecutor{}, "sq", true)

		att := domain.Attachment{TmuxSession: "sq-x", PaneID: "%1"}
		ok, err := m.SendKeys(context.Background(), att, "continue please")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "%1", mux.sentTarget)
		assert.Equal(t, "continue please", mux.sentText)
	})

	t.Run("no pane reports false without error", func(t *testing.T) {
		m := NewManager(&fakeMux{}, &fakeSignals{}, &fakeExecutor{}, "sq", true)

		ok, err := m.SendKeys(context.Background(), domain.Attachment{PID: 1}, "hello")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
