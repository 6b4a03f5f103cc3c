package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflicts_Execute(t *testing.T) {
	// Setup: two live sessions touching the same file
	sessions := testutil.NewMockSessionRepository()
	git := testutil.NewMockGit()
	sessions.Sessions["a1"] = runningSession("a1", "api", "/wt/a1")
	sessions.Sessions["b2"] = runningSession("b2", "api", "/wt/b2")
	git.ChangedByDir = map[string][]string{
		"/wt/a1": {"handler.go", "router.go"},
		"/wt/b2": {"handler.go", "model.go"},
	}
	uc := NewCheckConflicts(sessions, git)

	// Execute
	out, err := uc.Execute(context.Background(), CheckConflictsInput{TaskSlug: "api"})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Conflicts, 1)
	assert.Equal(t, "a1", out.Conflicts[0].SessionA)
	assert.Equal(t, "b2", out.Conflicts[0].SessionB)
	assert.Equal(t, []string{"handler.go"}, out.Conflicts[0].Files)
}

func TestCheckConflicts_Execute_DisjointFiles(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	git := testutil.NewMockGit()
	sessions.Sessions["a1"] = runningSession("a1", "api", "/wt/a1")
	sessions.Sessions["b2"] = runningSession("b2", "api", "/wt/b2")
	git.ChangedByDir = map[string][]string{
		"/wt/a1": {"handler.go"},
		"/wt/b2": {"model.go"},
	}
	uc := NewCheckConflicts(sessions, git)

	out, err := uc.Execute(context.Background(), CheckConflictsInput{TaskSlug: "api"})

	require.NoError(t, err)
	assert.Empty(t, out.Conflicts)
}

func TestCheckConflicts_Execute_IgnoresDeadAndDetached(t *testing.T) {
	// Setup: one completed session and one without a worktree share files
	// with a live one, but neither participates
	sessions := testutil.NewMockSessionRepository()
	git := testutil.NewMockGit()
	live := runningSession("a1", "api", "/wt/a1")
	done := runningSession("b2", "api", "/wt/b2")
	done.Lifecycle = domain.LifecycleCompleted
	detached := runningSession("c3", "api", "")
	sessions.Sessions["a1"] = live
	sessions.Sessions["b2"] = done
	sessions.Sessions["c3"] = detached
	git.ChangedByDir = map[string][]string{
		"/wt/a1": {"handler.go"},
		"/wt/b2": {"handler.go"},
	}
	uc := NewCheckConflicts(sessions, git)

	out, err := uc.Execute(context.Background(), CheckConflictsInput{TaskSlug: "api"})

	require.NoError(t, err)
	assert.Empty(t, out.Conflicts)
}

func TestCheckConflicts_Execute_ThreeWayOverlap(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	git := testutil.NewMockGit()
	sessions.Sessions["a1"] = runningSession("a1", "api", "/wt/a1")
	sessions.Sessions["b2"] = runningSession("b2", "api", "/wt/b2")
	sessions.Sessions["c3"] = runningSession("c3", "api", "/wt/c3")
	git.ChangedByDir = map[string][]string{
		"/wt/a1": {"shared.go"},
		"/wt/b2": {"shared.go"},
		"/wt/c3": {"shared.go"},
	}
	uc := NewCheckConflicts(sessions, git)

	out, err := uc.Execute(context.Background(), CheckConflictsInput{TaskSlug: "api"})

	require.NoError(t, err)
	assert.Len(t, out.Conflicts, 3)
}
