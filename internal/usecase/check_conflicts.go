package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// CheckConflictsInput contains the parameters for conflict detection.
type CheckConflictsInput struct {
	TaskSlug string
}

// SessionConflict reports two live sessions touching the same files.
// Fields are ordered to minimize memory padding.
type SessionConflict struct {
	SessionA string
	SessionB string
	Files    []string
}

// CheckConflictsOutput contains the detected conflicts.
type CheckConflictsOutput struct {
	Conflicts []SessionConflict
}

// CheckConflicts is the use case for detecting overlapping edits
// between live sessions of one task.
type CheckConflicts struct {
	sessions domain.SessionRepository
	git      domain.Git
}

// NewCheckConflicts creates a new CheckConflicts use case.
func NewCheckConflicts(sessions domain.SessionRepository, git domain.Git) *CheckConflicts {
	return &CheckConflicts{sessions: sessions, git: git}
}

// Execute intersects the changed-file sets of every live worktree pair
// on the task. Sessions without a worktree cannot conflict.
func (uc *CheckConflicts) Execute(_ context.Context, in CheckConflictsInput) (*CheckConflictsOutput, error) {
	live, err := uc.liveSessions(in.TaskSlug)
	if err != nil {
		return nil, err
	}

	changed := make(map[string][]string, len(live))
	for _, s := range live {
		files, err := uc.git.ChangedFiles(s.WorktreePath)
		if err != nil {
			return nil, fmt.Errorf("changed files for %s: %w", s.ShortID(), err)
		}
		changed[s.ID] = files
	}

	var conflicts []SessionConflict
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			files := shared.Intersect(changed[live[i].ID], changed[live[j].ID])
			if len(files) == 0 {
				continue
			}
			conflicts = append(conflicts, SessionConflict{
				SessionA: live[i].ID,
				SessionB: live[j].ID,
				Files:    files,
			})
		}
	}
	return &CheckConflictsOutput{Conflicts: conflicts}, nil
}

func (uc *CheckConflicts) liveSessions(taskSlug string) ([]*domain.Session, error) {
	all, err := uc.sessions.ListByTask(taskSlug)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var live []*domain.Session
	for _, s := range all {
		if s.Lifecycle.IsLive() && s.WorktreePath != "" {
			live = append(live, s)
		}
	}
	// Stable pair ordering regardless of repository iteration order.
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	return live, nil
}
