package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// MergeSessionInput contains the parameters for merging a session
// branch. Fields are ordered to minimize memory padding.
type MergeSessionInput struct {
	ID    string
	Force bool // Merge even when another live session touches the same files
}

// MergeSessionOutput contains the recorded merge.
type MergeSessionOutput struct {
	Record *domain.MergeRecord
}

// MergeSession is the use case for merging a session's branch into its
// task workspace.
type MergeSession struct {
	sessions domain.SessionRepository
	tasks    domain.TaskRepository
	merges   domain.MergeRecordRepository
	git      domain.Git
	clock    domain.Clock
	logger   *slog.Logger
}

// NewMergeSession creates a new MergeSession use case.
func NewMergeSession(
	sessions domain.SessionRepository,
	tasks domain.TaskRepository,
	merges domain.MergeRecordRepository,
	git domain.Git,
	clock domain.Clock,
	logger *slog.Logger,
) *MergeSession {
	return &MergeSession{
		sessions: sessions,
		tasks:    tasks,
		merges:   merges,
		git:      git,
		clock:    clock,
		logger:   logger,
	}
}

// Execute merges the session branch. Refused while a non-reverted
// merge record exists, and, unless forced, while another live session
// on the task has touched the same files.
func (uc *MergeSession) Execute(_ context.Context, in MergeSessionInput) (*MergeSessionOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if session.WorktreePath == "" {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNoWorktree)
	}

	existing, err := uc.merges.FindBySession(session.ID)
	if err != nil {
		return nil, fmt.Errorf("find merge record: %w", err)
	}
	if existing != nil && !existing.Reverted {
		return nil, fmt.Errorf("session %s: %w", session.ShortID(), domain.ErrAlreadyMerged)
	}

	task, err := uc.tasks.FindBySlug(session.TaskSlug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil || task.WorkspacePath == "" {
		return nil, fmt.Errorf("task %q has no workspace: %w", session.TaskSlug, domain.ErrNotGitRepository)
	}

	if !in.Force {
		if err := uc.checkOverlap(session); err != nil {
			return nil, err
		}
	}

	branch, err := uc.git.CurrentBranch(session.WorktreePath)
	if err != nil {
		return nil, fmt.Errorf("resolve session branch: %w", err)
	}

	sha, err := uc.git.Merge(task.WorkspacePath, branch)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", branch, err)
	}

	record := &domain.MergeRecord{
		Created:        uc.clock.Now(),
		SessionID:      session.ID,
		TaskSlug:       session.TaskSlug,
		BranchName:     branch,
		MergeCommitSHA: sha,
	}
	if err := uc.merges.Insert(record); err != nil {
		return nil, fmt.Errorf("record merge: %w", err)
	}

	uc.logger.Info("session merged",
		"session", session.ShortID(), "branch", branch, "sha", sha)
	return &MergeSessionOutput{Record: record}, nil
}

// checkOverlap refuses the merge when another live session on the same
// task has edited any of the same files.
func (uc *MergeSession) checkOverlap(session *domain.Session) error {
	ours, err := uc.git.ChangedFiles(session.WorktreePath)
	if err != nil {
		return fmt.Errorf("changed files: %w", err)
	}

	others, err := uc.sessions.ListByTask(session.TaskSlug)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, other := range others {
		if other.ID == session.ID || !other.Lifecycle.IsLive() || other.WorktreePath == "" {
			continue
		}
		theirs, err := uc.git.ChangedFiles(other.WorktreePath)
		if err != nil {
			return fmt.Errorf("changed files for %s: %w", other.ShortID(), err)
		}
		if overlap := shared.Intersect(ours, theirs); len(overlap) > 0 {
			return fmt.Errorf("session %s also edits %s: %w",
				other.ShortID(), strings.Join(overlap, ", "), domain.ErrMergeConflict)
		}
	}
	return nil
}
