package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/runoshun/squad/internal/domain"
)

// runCommandTimeout caps a worktree command; the process is killed
// when it expires and the partial output is returned.
const runCommandTimeout = 60 * time.Second

// RunInWorktreeInput contains the parameters for running a command in
// a session's worktree. Fields are ordered to minimize memory padding.
type RunInWorktreeInput struct {
	ID      string
	Command string
}

// RunInWorktreeOutput contains the merged command output. A non-zero
// exit or a timeout is data for the caller, not an Execute error.
// Fields are ordered to minimize memory padding.
type RunInWorktreeOutput struct {
	Output    string
	ExitError string
	TimedOut  bool
	Truncated bool
}

// RunInWorktree is the use case for running a one-off command inside a
// session's isolated checkout.
type RunInWorktree struct {
	sessions domain.SessionRepository
	tasks    domain.TaskRepository
	executor domain.CommandExecutor
	logger   *slog.Logger
}

// NewRunInWorktree creates a new RunInWorktree use case.
func NewRunInWorktree(
	sessions domain.SessionRepository,
	tasks domain.TaskRepository,
	executor domain.CommandExecutor,
	logger *slog.Logger,
) *RunInWorktree {
	return &RunInWorktree{sessions: sessions, tasks: tasks, executor: executor, logger: logger}
}

// Execute runs the command in the session's worktree, falling back to
// the task workspace when the session has none.
func (uc *RunInWorktree) Execute(ctx context.Context, in RunInWorktreeInput) (*RunInWorktreeOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}

	dir := session.WorktreePath
	if dir == "" {
		task, err := uc.tasks.FindBySlug(session.TaskSlug)
		if err != nil {
			return nil, fmt.Errorf("find task: %w", err)
		}
		if task != nil {
			dir = task.WorkspacePath
		}
	}
	if dir == "" {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNoWorktree)
	}

	parts, err := shellwords.Parse(in.Command)
	if err != nil {
		return nil, fmt.Errorf("parse command: %w: %s", domain.ErrInvalidArgument, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command: %w", domain.ErrInvalidArgument)
	}

	runCtx, cancel := context.WithTimeout(ctx, runCommandTimeout)
	defer cancel()

	spec := domain.CommandSpec{Program: parts[0], Args: parts[1:], Dir: dir}
	raw, runErr := uc.executor.ExecuteCombined(runCtx, spec)

	out := &RunInWorktreeOutput{Output: string(raw)}
	if len(out.Output) > domain.DiffLimit {
		out.Output = out.Output[:domain.DiffLimit]
		out.Truncated = true
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.DeadlineExceeded):
		out.TimedOut = true
		uc.logger.Warn("worktree command timed out", "session", session.ShortID(), "command", parts[0])
	default:
		out.ExitError = runErr.Error()
	}
	return out, nil
}
