package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTask_Execute_Success(t *testing.T) {
	// Setup
	tasks := testutil.NewMockTaskRepository()
	tasks.Tasks["api"] = activeTask("api", "/repos/api")
	sessions := testutil.NewMockSessionRepository()
	sessions.Sessions["s1"] = runningSession("s1", "api", "")
	uc := NewGetTask(tasks, sessions)

	// Execute
	out, err := uc.Execute(context.Background(), GetTaskInput{Slug: "api"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "api", out.Task.Slug)
	require.Len(t, out.Sessions, 1)
	assert.Equal(t, "s1", out.Sessions[0].ID)
}

func TestGetTask_Execute_NotFound(t *testing.T) {
	uc := NewGetTask(testutil.NewMockTaskRepository(), testutil.NewMockSessionRepository())

	_, err := uc.Execute(context.Background(), GetTaskInput{Slug: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTask_Execute_DeletedHidden(t *testing.T) {
	tasks := testutil.NewMockTaskRepository()
	deleted := activeTask("gone", "")
	deleted.Status = domain.TaskDeleted
	tasks.Tasks["gone"] = deleted
	uc := NewGetTask(tasks, testutil.NewMockSessionRepository())

	_, err := uc.Execute(context.Background(), GetTaskInput{Slug: "gone"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
