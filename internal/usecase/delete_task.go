package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Slug string
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task
}

// DeleteTask is the use case for soft-deleting a task. The slug stays
// claimed so history and merge records keep resolving.
type DeleteTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger *slog.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, clock domain.Clock, logger *slog.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, clock: clock, logger: logger}
}

// Execute marks the task deleted. Deleting twice is a no-op.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := uc.tasks.FindBySlug(in.Slug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %q: %w", in.Slug, domain.ErrNotFound)
	}
	if task.Status == domain.TaskDeleted {
		return &DeleteTaskOutput{Task: task}, nil
	}

	task.Status = domain.TaskDeleted
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.logger.Info("task deleted", "slug", task.Slug)
	return &DeleteTaskOutput{Task: task}, nil
}
