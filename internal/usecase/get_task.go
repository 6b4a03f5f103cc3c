package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// GetTaskInput contains the parameters for fetching a task.
type GetTaskInput struct {
	Slug string
}

// GetTaskOutput contains the task and its sessions, newest first.
type GetTaskOutput struct {
	Task     *domain.Task
	Sessions []*domain.Session
}

// GetTask is the use case for fetching a task with its sessions.
type GetTask struct {
	tasks    domain.TaskRepository
	sessions domain.SessionRepository
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(tasks domain.TaskRepository, sessions domain.SessionRepository) *GetTask {
	return &GetTask{tasks: tasks, sessions: sessions}
}

// Execute fetches the task. Deleted tasks are reported as missing.
func (uc *GetTask) Execute(_ context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	task, err := uc.tasks.FindBySlug(in.Slug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil || task.Status == domain.TaskDeleted {
		return nil, fmt.Errorf("task %q: %w", in.Slug, domain.ErrNotFound)
	}

	sessions, err := uc.sessions.ListByTask(task.Slug)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return &GetTaskOutput{Task: task, Sessions: sessions}, nil
}
