package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// ArchiveSessionInput contains the parameters for archiving a session.
type ArchiveSessionInput struct {
	ID string
}

// ArchiveSessionOutput contains the session after archiving.
type ArchiveSessionOutput struct {
	Session *domain.Session
}

// ArchiveSession is the use case for retiring a session. Archive is
// the force transition: it works from any non-terminal state and stops
// a live subprocess first.
type ArchiveSession struct {
	sessions  domain.SessionRepository
	tasks     domain.TaskRepository
	subproc   domain.SubprocessManager
	worktrees domain.WorktreeManager
	locks     *shared.KeyedLocks
	clock     domain.Clock
	logger    *slog.Logger
}

// NewArchiveSession creates a new ArchiveSession use case.
func NewArchiveSession(
	sessions domain.SessionRepository,
	tasks domain.TaskRepository,
	subproc domain.SubprocessManager,
	worktrees domain.WorktreeManager,
	locks *shared.KeyedLocks,
	clock domain.Clock,
	logger *slog.Logger,
) *ArchiveSession {
	return &ArchiveSession{
		sessions:  sessions,
		tasks:     tasks,
		subproc:   subproc,
		worktrees: worktrees,
		locks:     locks,
		clock:     clock,
		logger:    logger,
	}
}

// Execute archives the session. Archiving an archived session is a
// no-op.
func (uc *ArchiveSession) Execute(ctx context.Context, in ArchiveSessionInput) (*ArchiveSessionOutput, error) {
	unlock := uc.locks.Lock(in.ID)
	defer unlock()

	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if !session.Lifecycle.CanTransitionTo(domain.LifecycleArchived) {
		return &ArchiveSessionOutput{Session: session}, nil
	}

	if session.Lifecycle.IsLive() {
		if err := uc.subproc.Stop(ctx, session.Attachment); err != nil {
			uc.logger.Warn("stop subprocess", "session", session.ShortID(), "error", err)
		}
	}
	removeSessionWorktree(uc.tasks, uc.worktrees, uc.logger, session)

	session.Lifecycle = domain.LifecycleArchived
	session.Updated = uc.clock.Now()
	if err := uc.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	uc.logger.Info("session archived", "session", session.ShortID())
	return &ArchiveSessionOutput{Session: session}, nil
}
