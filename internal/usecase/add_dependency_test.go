package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddDependency(repo *testutil.MockTaskRepository) *AddDependency {
	return NewAddDependency(repo, testClock(), discardLogger())
}

func TestAddDependency_Execute_Success(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["api"] = activeTask("api", "")
	repo.Tasks["schema"] = activeTask("schema", "")
	uc := newAddDependency(repo)

	out, err := uc.Execute(context.Background(), AddDependencyInput{Slug: "api", DependsOn: "schema"})

	require.NoError(t, err)
	assert.Equal(t, []string{"schema"}, out.Task.DependsOn)
}

func TestAddDependency_Execute_DuplicateEdgeNoOp(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	api := activeTask("api", "")
	api.DependsOn = []string{"schema"}
	repo.Tasks["api"] = api
	repo.Tasks["schema"] = activeTask("schema", "")
	uc := newAddDependency(repo)

	out, err := uc.Execute(context.Background(), AddDependencyInput{Slug: "api", DependsOn: "schema"})

	require.NoError(t, err)
	assert.Equal(t, []string{"schema"}, out.Task.DependsOn)
}

func TestAddDependency_Execute_SelfDependency(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["api"] = activeTask("api", "")
	uc := newAddDependency(repo)

	_, err := uc.Execute(context.Background(), AddDependencyInput{Slug: "api", DependsOn: "api"})

	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestAddDependency_Execute_DirectCycle(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["a"] = activeTask("a", "")
	repo.Tasks["b"] = activeTask("b", "")
	uc := newAddDependency(repo)

	_, err := uc.Execute(context.Background(), AddDependencyInput{Slug: "a", DependsOn: "b"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), AddDependencyInput{Slug: "b", DependsOn: "a"})
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestAddDependency_Execute_TransitiveCycle(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	for _, slug := range []string{"a", "b", "c"} {
		repo.Tasks[slug] = activeTask(slug, "")
	}
	uc := newAddDependency(repo)

	_, err := uc.Execute(context.Background(), AddDependencyInput{Slug: "a", DependsOn: "b"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), AddDependencyInput{Slug: "b", DependsOn: "c"})
	require.NoError(t, err)

	// c → a would close a → b → c → a.
	_, err = uc.Execute(context.Background(), AddDependencyInput{Slug: "c", DependsOn: "a"})
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestAddDependency_Execute_MissingTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["api"] = activeTask("api", "")
	uc := newAddDependency(repo)

	_, err := uc.Execute(context.Background(), AddDependencyInput{Slug: "api", DependsOn: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(context.Background(), AddDependencyInput{Slug: "ghost", DependsOn: "api"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
