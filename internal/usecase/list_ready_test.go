package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReady_Execute(t *testing.T) {
	// Setup: free has no deps, blocked waits on free, satisfied waits
	// on an archived task.
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["free"] = activeTask("free", "")
	blocked := activeTask("blocked", "")
	blocked.DependsOn = []string{"free"}
	repo.Tasks["blocked"] = blocked
	done := activeTask("done", "")
	done.Status = domain.TaskArchived
	repo.Tasks["done"] = done
	satisfied := activeTask("satisfied", "")
	satisfied.DependsOn = []string{"done"}
	repo.Tasks["satisfied"] = satisfied
	uc := NewListReady(repo)

	// Execute
	out, err := uc.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	slugs := make([]string, 0, len(out.Tasks))
	for _, task := range out.Tasks {
		slugs = append(slugs, task.Slug)
	}
	assert.ElementsMatch(t, []string{"free", "satisfied"}, slugs)
}
