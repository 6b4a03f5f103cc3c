package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// GetSessionDiffInput contains the parameters for fetching a diff.
type GetSessionDiffInput struct {
	ID string
}

// GetSessionDiffOutput contains the worktree diff, capped at
// domain.DiffLimit characters.
type GetSessionDiffOutput struct {
	Diff      string
	Truncated bool
}

// GetSessionDiff is the use case for inspecting a session's
// uncommitted and committed-but-unmerged changes.
type GetSessionDiff struct {
	sessions domain.SessionRepository
	git      domain.Git
}

// NewGetSessionDiff creates a new GetSessionDiff use case.
func NewGetSessionDiff(sessions domain.SessionRepository, git domain.Git) *GetSessionDiff {
	return &GetSessionDiff{sessions: sessions, git: git}
}

// Execute returns the session worktree's diff against HEAD. Sessions
// without a worktree yield an empty diff, not an error.
func (uc *GetSessionDiff) Execute(_ context.Context, in GetSessionDiffInput) (*GetSessionDiffOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if session.WorktreePath == "" {
		return &GetSessionDiffOutput{}, nil
	}

	diff, err := uc.git.Diff(session.WorktreePath)
	if err != nil {
		return nil, fmt.Errorf("diff worktree: %w", err)
	}

	truncated := false
	if len(diff) > domain.DiffLimit {
		diff = diff[:domain.DiffLimit]
		truncated = true
	}
	return &GetSessionDiffOutput{Diff: diff, Truncated: truncated}, nil
}
