// Package proc sends Unix signals to agent processes.
package proc

import (
	"errors"
	"syscall"
)

// Signaler wraps the handful of process signals session control needs.
type Signaler struct{}

// NewSignaler creates a new signaler.
func NewSignaler() *Signaler {
	return &Signaler{}
}

// IsAlive reports whether pid refers to a live process. Signal 0
// performs the existence check without delivering anything; EPERM
// means the process exists but belongs to someone else.
func (s *Signaler) IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}

// Terminate asks the process to exit with SIGTERM.
func (s *Signaler) Terminate(pid int) error {
	if pid <= 0 {
		return nil
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}

// Suspend stops the process with SIGSTOP.
func (s *Signaler) Suspend(pid int) error {
	if pid <= 0 {
		return nil
	}
	return syscall.Kill(pid, syscall.SIGSTOP)
}

// Continue resumes a stopped process with SIGCONT.
func (s *Signaler) Continue(pid int) error {
	if pid <= 0 {
		return nil
	}
	return syscall.Kill(pid, syscall.SIGCONT)
}
