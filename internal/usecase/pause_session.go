package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// PauseSessionInput contains the parameters for pausing a session.
type PauseSessionInput struct {
	ID string
}

// PauseSessionOutput contains the session after the pause.
type PauseSessionOutput struct {
	Session *domain.Session
}

// PauseSession is the use case for suspending a running session.
type PauseSession struct {
	sessions domain.SessionRepository
	subproc  domain.SubprocessManager
	locks    *shared.KeyedLocks
	clock    domain.Clock
	logger   *slog.Logger
}

// NewPauseSession creates a new PauseSession use case.
func NewPauseSession(
	sessions domain.SessionRepository,
	subproc domain.SubprocessManager,
	locks *shared.KeyedLocks,
	clock domain.Clock,
	logger *slog.Logger,
) *PauseSession {
	return &PauseSession{sessions: sessions, subproc: subproc, locks: locks, clock: clock, logger: logger}
}

// Execute pauses the session with SIGSTOP. Only running sessions
// pause; anything else is returned unchanged.
func (uc *PauseSession) Execute(_ context.Context, in PauseSessionInput) (*PauseSessionOutput, error) {
	unlock := uc.locks.Lock(in.ID)
	defer unlock()

	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if session.Lifecycle != domain.LifecycleRunning {
		return &PauseSessionOutput{Session: session}, nil
	}

	if !uc.subproc.Pause(session.Attachment) {
		uc.logger.Warn("pause signal had no effect", "session", session.ShortID())
	}

	session.Lifecycle = domain.LifecyclePaused
	session.Updated = uc.clock.Now()
	if err := uc.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	uc.logger.Info("session paused", "session", session.ShortID())
	return &PauseSessionOutput{Session: session}, nil
}
