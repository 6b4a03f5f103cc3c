package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/runoshun/squad/internal/usecase/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stopSessionMocks struct {
	sessions  *testutil.MockSessionRepository
	tasks     *testutil.MockTaskRepository
	subproc   *testutil.MockSubprocessManager
	worktrees *testutil.MockWorktreeManager
}

func newStopSession() (*StopSession, *stopSessionMocks) {
	m := &stopSessionMocks{
		sessions:  testutil.NewMockSessionRepository(),
		tasks:     testutil.NewMockTaskRepository(),
		subproc:   testutil.NewMockSubprocessManager(),
		worktrees: testutil.NewMockWorktreeManager(),
	}
	uc := NewStopSession(m.sessions, m.tasks, m.subproc, m.worktrees,
		shared.NewKeyedLocks(), testClock(), discardLogger())
	return uc, m
}

func TestStopSession_Execute_Running(t *testing.T) {
	// Setup
	uc, m := newStopSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/repos/api-worktrees/s1")

	// Execute
	out, err := uc.Execute(context.Background(), StopSessionInput{ID: "s1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.LifecycleCompleted, out.Session.Lifecycle)
	assert.True(t, m.subproc.StopCalled)
	assert.True(t, m.worktrees.RemoveCalled)
	assert.Equal(t, "/repos/api-worktrees/s1", m.worktrees.RemovedPath)
}

func TestStopSession_Execute_SecondStopNoOp(t *testing.T) {
	// Setup
	uc, m := newStopSession()
	m.tasks.Tasks["api"] = activeTask("api", "")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "")

	// Execute twice
	_, err := uc.Execute(context.Background(), StopSessionInput{ID: "s1"})
	require.NoError(t, err)
	m.subproc.StopCalled = false

	out, err := uc.Execute(context.Background(), StopSessionInput{ID: "s1"})

	// Assert: no subprocess action on the second stop
	require.NoError(t, err)
	assert.Equal(t, domain.LifecycleCompleted, out.Session.Lifecycle)
	assert.False(t, m.subproc.StopCalled)
}

func TestStopSession_Execute_WithoutWorktree(t *testing.T) {
	uc, m := newStopSession()
	m.tasks.Tasks["api"] = activeTask("api", "")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "")

	out, err := uc.Execute(context.Background(), StopSessionInput{ID: "s1"})

	require.NoError(t, err)
	assert.Equal(t, domain.LifecycleCompleted, out.Session.Lifecycle)
	assert.False(t, m.worktrees.RemoveCalled)
}

func TestStopSession_Execute_NotFound(t *testing.T) {
	uc, _ := newStopSession()

	_, err := uc.Execute(context.Background(), StopSessionInput{ID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
