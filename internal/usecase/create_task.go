// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
)

// CreateTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	Title         string   // Task title (required)
	WorkspacePath string   // Git repository the task targets (optional)
	Complexity    string   // Routing hint: junior, mid, senior (optional)
	Tags          []string // Free-form tags (optional)
	DependsOn     []string // Slugs of prerequisite tasks (optional)
}

// CreateTaskOutput contains the result of creating a task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask is the use case for creating a task.
type CreateTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger *slog.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(tasks domain.TaskRepository, clock domain.Clock, logger *slog.Logger) *CreateTask {
	return &CreateTask{tasks: tasks, clock: clock, logger: logger}
}

// Execute creates a task with the given input.
func (uc *CreateTask) Execute(_ context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	slug := domain.Slugify(in.Title)
	if slug == "" {
		return nil, fmt.Errorf("title %q yields no slug: %w", in.Title, domain.ErrInvalidArgument)
	}
	if err := domain.ValidateTags(in.Tags); err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	switch in.Complexity {
	case "", domain.ComplexityJunior, domain.ComplexityMid, domain.ComplexitySenior:
	default:
		return nil, fmt.Errorf("complexity %q: %w", in.Complexity, domain.ErrInvalidArgument)
	}

	for _, dep := range in.DependsOn {
		if dep == slug {
			return nil, fmt.Errorf("task cannot depend on itself: %w", domain.ErrCycleDetected)
		}
		target, err := uc.tasks.FindBySlug(dep)
		if err != nil {
			return nil, fmt.Errorf("find dependency: %w", err)
		}
		if target == nil || target.Status == domain.TaskDeleted {
			return nil, fmt.Errorf("dependency %q: %w", dep, domain.ErrNotFound)
		}
	}

	now := uc.clock.Now()
	task := &domain.Task{
		Created:       now,
		Updated:       now,
		Slug:          slug,
		Title:         in.Title,
		Status:        domain.TaskActive,
		WorkspacePath: in.WorkspacePath,
		Complexity:    in.Complexity,
		Tags:          in.Tags,
		DependsOn:     in.DependsOn,
	}
	if err := uc.tasks.Insert(task); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	uc.logger.Info("task created", "slug", slug, "deps", len(in.DependsOn))
	return &CreateTaskOutput{Task: task}, nil
}
