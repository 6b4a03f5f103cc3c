package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
)

// RollbackSessionInput contains the parameters for rolling back a
// merge.
type RollbackSessionInput struct {
	ID string
}

// RollbackSessionOutput contains the revert commit.
type RollbackSessionOutput struct {
	RevertCommitSHA string
}

// RollbackSession is the use case for reverting a session's merge
// commit in the task workspace.
type RollbackSession struct {
	tasks  domain.TaskRepository
	merges domain.MergeRecordRepository
	git    domain.Git
	logger *slog.Logger
}

// NewRollbackSession creates a new RollbackSession use case.
func NewRollbackSession(
	tasks domain.TaskRepository,
	merges domain.MergeRecordRepository,
	git domain.Git,
	logger *slog.Logger,
) *RollbackSession {
	return &RollbackSession{tasks: tasks, merges: merges, git: git, logger: logger}
}

// Execute reverts the session's recorded merge commit. Refused when no
// record exists or the merge was already reverted.
func (uc *RollbackSession) Execute(_ context.Context, in RollbackSessionInput) (*RollbackSessionOutput, error) {
	record, err := uc.merges.FindBySession(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find merge record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNoMergeRecord)
	}
	if record.Reverted {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrAlreadyReverted)
	}

	task, err := uc.tasks.FindBySlug(record.TaskSlug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil || task.WorkspacePath == "" {
		return nil, fmt.Errorf("task %q has no workspace: %w", record.TaskSlug, domain.ErrNotGitRepository)
	}

	revertSHA, err := uc.git.Revert(task.WorkspacePath, record.MergeCommitSHA)
	if err != nil {
		return nil, fmt.Errorf("revert %s: %w", record.MergeCommitSHA, err)
	}

	if err := uc.merges.MarkReverted(in.ID, revertSHA); err != nil {
		return nil, fmt.Errorf("mark reverted: %w", err)
	}

	uc.logger.Info("merge rolled back",
		"session", domain.ShortID(in.ID), "merge", record.MergeCommitSHA, "revert", revertSHA)
	return &RollbackSessionOutput{RevertCommitSHA: revertSHA}, nil
}
