package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
)

// ArchiveTaskInput contains the parameters for archiving a task.
type ArchiveTaskInput struct {
	Slug string
}

// ArchiveTaskOutput contains the archived task and any tasks whose
// dependencies are now all satisfied.
type ArchiveTaskOutput struct {
	Task      *domain.Task
	Unblocked []string
}

// ArchiveTask is the use case for archiving a task. Archiving is the
// terminal "done" state and is what unblocks dependent tasks.
type ArchiveTask struct {
	tasks  domain.TaskRepository
	events domain.EventRepository
	clock  domain.Clock
	logger *slog.Logger
}

// NewArchiveTask creates a new ArchiveTask use case.
func NewArchiveTask(tasks domain.TaskRepository, events domain.EventRepository, clock domain.Clock, logger *slog.Logger) *ArchiveTask {
	return &ArchiveTask{tasks: tasks, events: events, clock: clock, logger: logger}
}

// Execute archives the task and reports newly unblocked dependents.
// Archiving an already archived task is a no-op.
func (uc *ArchiveTask) Execute(_ context.Context, in ArchiveTaskInput) (*ArchiveTaskOutput, error) {
	task, err := uc.tasks.FindBySlug(in.Slug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil || task.Status == domain.TaskDeleted {
		return nil, fmt.Errorf("task %q: %w", in.Slug, domain.ErrNotFound)
	}
	if task.Status == domain.TaskArchived {
		return &ArchiveTaskOutput{Task: task}, nil
	}

	task.Status = domain.TaskArchived
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	unblocked, err := uc.collectUnblocked(task.Slug)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("task archived", "slug", task.Slug, "unblocked", len(unblocked))
	return &ArchiveTaskOutput{Task: task, Unblocked: unblocked}, nil
}

// collectUnblocked finds dependents whose dependencies are now all
// archived and records an unblock event for each.
func (uc *ArchiveTask) collectUnblocked(slug string) ([]string, error) {
	dependents, err := uc.tasks.FindDependents(slug)
	if err != nil {
		return nil, fmt.Errorf("find dependents: %w", err)
	}

	var unblocked []string
	for _, dep := range dependents {
		if dep.Status != domain.TaskActive {
			continue
		}
		ready, err := uc.allDepsArchived(dep)
		if err != nil {
			return nil, err
		}
		if !ready {
			continue
		}
		unblocked = append(unblocked, dep.Slug)

		event := &domain.AgentEvent{
			Created: uc.clock.Now(),
			Type:    domain.EventUnblocked,
			Message: fmt.Sprintf("task %q is unblocked: all dependencies archived", dep.Slug),
		}
		if err := uc.events.Insert(event); err != nil {
			uc.logger.Warn("record unblock event", "slug", dep.Slug, "error", err)
		}
	}
	return unblocked, nil
}

func (uc *ArchiveTask) allDepsArchived(task *domain.Task) (bool, error) {
	for _, slug := range task.DependsOn {
		dep, err := uc.tasks.FindBySlug(slug)
		if err != nil {
			return false, fmt.Errorf("find dependency: %w", err)
		}
		if dep == nil || dep.Status != domain.TaskArchived {
			return false, nil
		}
	}
	return true, nil
}
