package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mergeSessionMocks struct {
	sessions *testutil.MockSessionRepository
	tasks    *testutil.MockTaskRepository
	merges   *testutil.MockMergeRecordRepository
	git      *testutil.MockGit
}

func newMergeSession() (*MergeSession, *mergeSessionMocks) {
	m := &mergeSessionMocks{
		sessions: testutil.NewMockSessionRepository(),
		tasks:    testutil.NewMockTaskRepository(),
		merges:   &testutil.MockMergeRecordRepository{},
		git:      testutil.NewMockGit(),
	}
	uc := NewMergeSession(m.sessions, m.tasks, m.merges, m.git, testClock(), discardLogger())
	return uc, m
}

func TestMergeSession_Execute(t *testing.T) {
	// Setup
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.git.Branch = "session/claude-local-s1"

	// Execute
	out, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/repos/api", m.git.MergedInto)
	assert.Equal(t, "session/claude-local-s1", m.git.MergedBranch)
	require.Len(t, m.merges.Records, 1)
	assert.Equal(t, "s1", out.Record.SessionID)
	assert.Equal(t, "api", out.Record.TaskSlug)
	assert.Equal(t, "session/claude-local-s1", out.Record.BranchName)
	assert.Equal(t, "merge456", out.Record.MergeCommitSHA)
	assert.Equal(t, testClock().NowTime, out.Record.Created)
	assert.False(t, out.Record.Reverted)
}

func TestMergeSession_Execute_OverlapBlocks(t *testing.T) {
	// Setup: another live session changed the same file
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.sessions.Sessions["s2"] = runningSession("s2", "api", "/wt/s2")
	m.git.ChangedByDir = map[string][]string{
		"/wt/s1": {"handler.go"},
		"/wt/s2": {"handler.go"},
	}

	// Execute
	_, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrMergeConflict)
	assert.Contains(t, err.Error(), "handler.go")
	assert.False(t, m.git.MergeCalled)
}

func TestMergeSession_Execute_ForceBypassesOverlap(t *testing.T) {
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.sessions.Sessions["s2"] = runningSession("s2", "api", "/wt/s2")
	m.git.ChangedByDir = map[string][]string{
		"/wt/s1": {"handler.go"},
		"/wt/s2": {"handler.go"},
	}

	out, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1", Force: true})

	require.NoError(t, err)
	assert.True(t, m.git.MergeCalled)
	assert.Equal(t, "merge456", out.Record.MergeCommitSHA)
}

func TestMergeSession_Execute_AlreadyMerged(t *testing.T) {
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.merges.Records = []*domain.MergeRecord{{SessionID: "s1", MergeCommitSHA: "old"}}

	_, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	assert.ErrorIs(t, err, domain.ErrAlreadyMerged)
	assert.False(t, m.git.MergeCalled)
}

func TestMergeSession_Execute_RevertedRecordAllowsRemerge(t *testing.T) {
	// Setup: the previous merge was rolled back
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.merges.Records = []*domain.MergeRecord{
		{SessionID: "s1", MergeCommitSHA: "old", Reverted: true, RevertCommitSHA: "undo"},
	}

	// Execute
	out, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	// Assert: a fresh record, the reverted one untouched
	require.NoError(t, err)
	assert.Equal(t, "merge456", out.Record.MergeCommitSHA)
	assert.Len(t, m.merges.Records, 2)
}

func TestMergeSession_Execute_NoWorktree(t *testing.T) {
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "")

	_, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	assert.ErrorIs(t, err, domain.ErrNoWorktree)
}

func TestMergeSession_Execute_NoWorkspace(t *testing.T) {
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")

	_, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	assert.ErrorIs(t, err, domain.ErrNotGitRepository)
}

func TestMergeSession_Execute_GitConflict(t *testing.T) {
	// Setup: the merge itself hits conflicting hunks
	uc, m := newMergeSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.git.MergeErr = domain.ErrMergeConflict

	// Execute
	_, err := uc.Execute(context.Background(), MergeSessionInput{ID: "s1"})

	// Assert: surfaced to the caller, nothing recorded
	assert.ErrorIs(t, err, domain.ErrMergeConflict)
	assert.Empty(t, m.merges.Records)
}

func TestMergeSession_Execute_NotFound(t *testing.T) {
	uc, _ := newMergeSession()

	_, err := uc.Execute(context.Background(), MergeSessionInput{ID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
