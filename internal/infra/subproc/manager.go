// Package subproc spawns and controls agent subprocesses.
package subproc

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// ProcessSignaler is the signal surface the manager needs. It is
// satisfied by proc.Signaler.
type ProcessSignaler interface {
	IsAlive(pid int) bool
	Terminate(pid int) error
	Suspend(pid int) error
	Continue(pid int) error
}

// defaultCaptureLines bounds pane capture when the caller does not say
// how much scrollback it wants.
const defaultCaptureLines = 200

// Manager implements domain.SubprocessManager. It prefers running
// agents inside the dedicated tmux server, so a finished agent's
// output stays attached and inspectable; with tmux disabled it falls
// back to detached processes.
// Fields are ordered to minimize memory padding.
type Manager struct {
	mux      domain.Multiplexer
	signals  ProcessSignaler
	executor domain.CommandExecutor
	prefix   string // Multiplexer session name prefix
	useTmux  bool
}

// NewManager creates a subprocess manager.
func NewManager(mux domain.Multiplexer, signals ProcessSignaler, executor domain.CommandExecutor, prefix string, useTmux bool) *Manager {
	return &Manager{
		mux:      mux,
		signals:  signals,
		executor: executor,
		prefix:   prefix,
		useTmux:  useTmux,
	}
}

// Ensure Manager implements domain.SubprocessManager interface.
var _ domain.SubprocessManager = (*Manager)(nil)

// Spawn launches the command and resolves its attachment. Failures are
// reported inside the result; the session bookkeeping decides what to
// do with them.
func (m *Manager) Spawn(ctx context.Context, name string, spec domain.CommandSpec) domain.SpawnResult {
	if !m.useTmux {
		pid, err := m.executor.Start(spec)
		if err != nil {
			return domain.SpawnResult{Error: fmt.Sprintf("start process: %v", err)}
		}
		return domain.SpawnResult{
			Success:    true,
			Attachment: domain.Attachment{PID: pid},
		}
	}

	session := domain.TmuxSessionName(m.prefix, name)
	window := "main"
	paneID, pid, err := m.mux.SpawnWindow(ctx, session, window, spec)
	if err != nil {
		return domain.SpawnResult{Error: fmt.Sprintf("spawn tmux window: %v", err)}
	}
	return domain.SpawnResult{
		Success: true,
		Attachment: domain.Attachment{
			TmuxSession: session,
			TmuxWindow:  window,
			PaneID:      paneID,
			PID:         pid,
		},
	}
}

// Stop terminates the attached process and removes its window. The
// SIGTERM is best-effort; a process that already exited is fine.
func (m *Manager) Stop(ctx context.Context, att domain.Attachment) error {
	if att.PID > 0 && m.signals.IsAlive(att.PID) {
		_ = m.signals.Terminate(att.PID)
	}
	if att.HasPane() {
		if err := m.mux.KillWindow(ctx, att.TmuxSession, att.TmuxWindow); err != nil {
			return fmt.Errorf("kill window: %w", err)
		}
	}
	return nil
}

// Pause suspends the attached process. Returns false when the pid is
// no longer alive.
func (m *Manager) Pause(att domain.Attachment) bool {
	if att.PID <= 0 || !m.signals.IsAlive(att.PID) {
		return false
	}
	return m.signals.Suspend(att.PID) == nil
}

// Resume continues a paused process. Returns false when the pid is no
// longer alive.
func (m *Manager) Resume(att domain.Attachment) bool {
	if att.PID <= 0 || !m.signals.IsAlive(att.PID) {
		return false
	}
	return m.signals.Continue(att.PID) == nil
}

// IsAlive checks process liveness by signaling 0.
func (m *Manager) IsAlive(pid int) bool {
	return m.signals.IsAlive(pid)
}

// CaptureOutput reads recent scrollback from the attached pane.
// Sessions without a pane (direct spawns) have nothing to capture and
// return "" without error.
func (m *Manager) CaptureOutput(ctx context.Context, att domain.Attachment, lines int) (string, error) {
	if !att.HasPane() {
		return "", nil
	}
	if lines <= 0 {
		lines = defaultCaptureLines
	}
	return m.mux.CapturePane(ctx, att.PaneID, lines)
}

// SendKeys injects text plus Enter into the attached pane. Sessions
// without a pane report false without error.
func (m *Manager) SendKeys(ctx context.Context, att domain.Attachment, text string) (bool, error) {
	if !att.HasPane() {
		return false, nil
	}
	if err := m.mux.SendKeys(ctx, att.PaneID, text); err != nil {
		return false, err
	}
	return true, nil
}
