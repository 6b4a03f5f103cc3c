package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// ResumeSessionInput contains the parameters for resuming a session.
type ResumeSessionInput struct {
	ID string
}

// ResumeSessionOutput contains the session after the resume.
type ResumeSessionOutput struct {
	Session *domain.Session
}

// ResumeSession is the use case for continuing a paused session.
type ResumeSession struct {
	sessions domain.SessionRepository
	subproc  domain.SubprocessManager
	locks    *shared.KeyedLocks
	clock    domain.Clock
	logger   *slog.Logger
}

// NewResumeSession creates a new ResumeSession use case.
func NewResumeSession(
	sessions domain.SessionRepository,
	subproc domain.SubprocessManager,
	locks *shared.KeyedLocks,
	clock domain.Clock,
	logger *slog.Logger,
) *ResumeSession {
	return &ResumeSession{sessions: sessions, subproc: subproc, locks: locks, clock: clock, logger: logger}
}

// Execute resumes the session with SIGCONT. Only paused sessions
// resume; anything else is returned unchanged.
func (uc *ResumeSession) Execute(_ context.Context, in ResumeSessionInput) (*ResumeSessionOutput, error) {
	unlock := uc.locks.Lock(in.ID)
	defer unlock()

	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if session.Lifecycle != domain.LifecyclePaused {
		return &ResumeSessionOutput{Session: session}, nil
	}

	if !uc.subproc.Resume(session.Attachment) {
		uc.logger.Warn("resume signal had no effect", "session", session.ShortID())
	}

	session.Lifecycle = domain.LifecycleRunning
	session.Updated = uc.clock.Now()
	if err := uc.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	uc.logger.Info("session resumed", "session", session.ShortID())
	return &ResumeSessionOutput{Session: session}, nil
}
