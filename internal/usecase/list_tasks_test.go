package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasks_Execute(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["alive"] = activeTask("alive", "")
	archived := activeTask("done", "")
	archived.Status = domain.TaskArchived
	repo.Tasks["done"] = archived
	deleted := activeTask("gone", "")
	deleted.Status = domain.TaskDeleted
	repo.Tasks["gone"] = deleted
	uc := NewListTasks(repo)

	// Execute: default hides archived and deleted
	out, err := uc.Execute(context.Background(), ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "alive", out.Tasks[0].Slug)

	// Execute: archived included on request, deleted never
	out, err = uc.Execute(context.Background(), ListTasksInput{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, out.Tasks, 2)
}
