package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
)

// AddDependencyInput contains the parameters for adding a dependency.
// Fields are ordered to minimize memory padding.
type AddDependencyInput struct {
	Slug      string // Task that gains the dependency
	DependsOn string // Task it must wait for
}

// AddDependencyOutput contains the updated task.
type AddDependencyOutput struct {
	Task *domain.Task
}

// AddDependency is the use case for adding a task dependency edge.
type AddDependency struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger *slog.Logger
}

// NewAddDependency creates a new AddDependency use case.
func NewAddDependency(tasks domain.TaskRepository, clock domain.Clock, logger *slog.Logger) *AddDependency {
	return &AddDependency{tasks: tasks, clock: clock, logger: logger}
}

// Execute adds the edge slug → depends_on. The dependency graph stays
// acyclic; an edge that would close a cycle is rejected. Adding an
// existing edge is a no-op.
func (uc *AddDependency) Execute(_ context.Context, in AddDependencyInput) (*AddDependencyOutput, error) {
	if in.Slug == in.DependsOn {
		return nil, fmt.Errorf("task cannot depend on itself: %w", domain.ErrCycleDetected)
	}

	task, err := uc.findLive(in.Slug)
	if err != nil {
		return nil, err
	}
	if _, err := uc.findLive(in.DependsOn); err != nil {
		return nil, err
	}

	if task.DependsOnSlug(in.DependsOn) {
		return &AddDependencyOutput{Task: task}, nil
	}

	cycle, err := uc.reaches(in.DependsOn, in.Slug)
	if err != nil {
		return nil, err
	}
	if cycle {
		return nil, fmt.Errorf("%q already depends on %q: %w", in.DependsOn, in.Slug, domain.ErrCycleDetected)
	}

	task.DependsOn = append(task.DependsOn, in.DependsOn)
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.logger.Info("dependency added", "slug", in.Slug, "dependsOn", in.DependsOn)
	return &AddDependencyOutput{Task: task}, nil
}

func (uc *AddDependency) findLive(slug string) (*domain.Task, error) {
	task, err := uc.tasks.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil || task.Status == domain.TaskDeleted {
		return nil, fmt.Errorf("task %q: %w", slug, domain.ErrNotFound)
	}
	return task, nil
}

// reaches walks the dependency graph depth-first from start and
// reports whether target is reachable.
func (uc *AddDependency) reaches(start, target string) (bool, error) {
	visited := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		slug := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if slug == target {
			return true, nil
		}
		if visited[slug] {
			continue
		}
		visited[slug] = true

		task, err := uc.tasks.FindBySlug(slug)
		if err != nil {
			return false, fmt.Errorf("find task: %w", err)
		}
		if task == nil {
			continue
		}
		stack = append(stack, task.DependsOn...)
	}
	return false, nil
}
