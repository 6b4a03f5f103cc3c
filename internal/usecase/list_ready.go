package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// ListReadyOutput contains tasks whose dependencies are all archived.
type ListReadyOutput struct {
	Tasks []*domain.Task
}

// ListReady is the use case for listing tasks ready to start.
type ListReady struct {
	tasks domain.TaskRepository
}

// NewListReady creates a new ListReady use case.
func NewListReady(tasks domain.TaskRepository) *ListReady {
	return &ListReady{tasks: tasks}
}

// Execute lists ready tasks. A dependency on a missing task blocks
// forever; readiness requires every dependency to be archived.
func (uc *ListReady) Execute(_ context.Context) (*ListReadyOutput, error) {
	tasks, err := uc.tasks.FindReady()
	if err != nil {
		return nil, fmt.Errorf("find ready tasks: %w", err)
	}
	return &ListReadyOutput{Tasks: tasks}, nil
}
