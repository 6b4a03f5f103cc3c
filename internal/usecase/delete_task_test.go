package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteTask_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["old"] = activeTask("old", "")
	uc := NewDeleteTask(repo, testClock(), discardLogger())

	out, err := uc.Execute(context.Background(), DeleteTaskInput{Slug: "old"})

	require.NoError(t, err)
	assert.Equal(t, domain.TaskDeleted, out.Task.Status)

	// Deleting again is a no-op, not an error.
	out, err = uc.Execute(context.Background(), DeleteTaskInput{Slug: "old"})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDeleted, out.Task.Status)
}

func TestDeleteTask_Execute_NotFound(t *testing.T) {
	uc := NewDeleteTask(testutil.NewMockTaskRepository(), testClock(), discardLogger())

	_, err := uc.Execute(context.Background(), DeleteTaskInput{Slug: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
