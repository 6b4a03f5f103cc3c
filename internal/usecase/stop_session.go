package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// StopSessionInput contains the parameters for stopping a session.
type StopSessionInput struct {
	ID string
}

// StopSessionOutput contains the session after the stop.
type StopSessionOutput struct {
	Session *domain.Session
}

// StopSession is the use case for stopping a session's subprocess and
// completing it.
type StopSession struct {
	sessions  domain.SessionRepository
	tasks     domain.TaskRepository
	subproc   domain.SubprocessManager
	worktrees domain.WorktreeManager
	locks     *shared.KeyedLocks
	clock     domain.Clock
	logger    *slog.Logger
}

// NewStopSession creates a new StopSession use case.
func NewStopSession(
	sessions domain.SessionRepository,
	tasks domain.TaskRepository,
	subproc domain.SubprocessManager,
	worktrees domain.WorktreeManager,
	locks *shared.KeyedLocks,
	clock domain.Clock,
	logger *slog.Logger,
) *StopSession {
	return &StopSession{
		sessions:  sessions,
		tasks:     tasks,
		subproc:   subproc,
		worktrees: worktrees,
		locks:     locks,
		clock:     clock,
		logger:    logger,
	}
}

// Execute stops the session. A session that cannot move to completed
// is returned unchanged; stopping is idempotent.
func (uc *StopSession) Execute(ctx context.Context, in StopSessionInput) (*StopSessionOutput, error) {
	unlock := uc.locks.Lock(in.ID)
	defer unlock()

	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if !session.Lifecycle.CanTransitionTo(domain.LifecycleCompleted) {
		return &StopSessionOutput{Session: session}, nil
	}

	if err := uc.subproc.Stop(ctx, session.Attachment); err != nil {
		uc.logger.Warn("stop subprocess", "session", session.ShortID(), "error", err)
	}
	removeSessionWorktree(uc.tasks, uc.worktrees, uc.logger, session)

	session.Lifecycle = domain.LifecycleCompleted
	session.Updated = uc.clock.Now()
	if err := uc.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	uc.logger.Info("session stopped", "session", session.ShortID())
	return &StopSessionOutput{Session: session}, nil
}

// removeSessionWorktree releases a session's worktree. Failures are
// logged, never propagated; the directory can be pruned later.
func removeSessionWorktree(tasks domain.TaskRepository, worktrees domain.WorktreeManager, logger *slog.Logger, session *domain.Session) {
	if session.WorktreePath == "" {
		return
	}
	task, err := tasks.FindBySlug(session.TaskSlug)
	if err != nil || task == nil || task.WorkspacePath == "" {
		logger.Warn("worktree cleanup skipped, workspace unknown",
			"session", session.ShortID(), "task", session.TaskSlug)
		return
	}
	if err := worktrees.Remove(task.WorkspacePath, session.WorktreePath); err != nil {
		logger.Warn("remove worktree", "path", session.WorktreePath, "error", err)
	}
}
