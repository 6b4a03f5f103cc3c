package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRollbackSession() (*RollbackSession, *testutil.MockTaskRepository, *testutil.MockMergeRecordRepository, *testutil.MockGit) {
	tasks := testutil.NewMockTaskRepository()
	merges := &testutil.MockMergeRecordRepository{}
	git := testutil.NewMockGit()
	uc := NewRollbackSession(tasks, merges, git, discardLogger())
	return uc, tasks, merges, git
}

func TestRollbackSession_Execute(t *testing.T) {
	// Setup
	uc, tasks, merges, git := newRollbackSession()
	tasks.Tasks["api"] = activeTask("api", "/repos/api")
	merges.Records = []*domain.MergeRecord{
		{SessionID: "s1", TaskSlug: "api", BranchName: "session/claude-local-s1", MergeCommitSHA: "merge456"},
	}

	// Execute
	out, err := uc.Execute(context.Background(), RollbackSessionInput{ID: "s1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "revert789", out.RevertCommitSHA)
	assert.Equal(t, "/repos/api", git.RevertedIn)
	assert.Equal(t, "merge456", git.RevertedSHA)
	assert.True(t, merges.Records[0].Reverted)
	assert.Equal(t, "revert789", merges.Records[0].RevertCommitSHA)
}

func TestRollbackSession_Execute_NoRecord(t *testing.T) {
	uc, _, _, git := newRollbackSession()

	_, err := uc.Execute(context.Background(), RollbackSessionInput{ID: "s1"})

	assert.ErrorIs(t, err, domain.ErrNoMergeRecord)
	assert.False(t, git.RevertCalled)
}

func TestRollbackSession_Execute_AlreadyReverted(t *testing.T) {
	uc, tasks, merges, git := newRollbackSession()
	tasks.Tasks["api"] = activeTask("api", "/repos/api")
	merges.Records = []*domain.MergeRecord{
		{SessionID: "s1", TaskSlug: "api", MergeCommitSHA: "merge456", Reverted: true, RevertCommitSHA: "undo"},
	}

	_, err := uc.Execute(context.Background(), RollbackSessionInput{ID: "s1"})

	assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
	assert.False(t, git.RevertCalled)
}

func TestRollbackSession_Execute_RevertFails(t *testing.T) {
	// Setup: the revert itself conflicts, the record must stay clean
	uc, tasks, merges, git := newRollbackSession()
	tasks.Tasks["api"] = activeTask("api", "/repos/api")
	merges.Records = []*domain.MergeRecord{
		{SessionID: "s1", TaskSlug: "api", MergeCommitSHA: "merge456"},
	}
	git.RevertErr = domain.ErrMergeConflict

	// Execute
	_, err := uc.Execute(context.Background(), RollbackSessionInput{ID: "s1"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrMergeConflict)
	assert.False(t, merges.Records[0].Reverted)
}
