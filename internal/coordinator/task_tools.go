package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

func handleListTasks(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		IncludeArchived bool `json:"include_archived"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.ListTasks.Execute(ctx, usecase.ListTasksInput{IncludeArchived: args.IncludeArchived})
	if err != nil {
		return nil, err
	}
	return map[string]any{"tasks": taskResults(out.Tasks)}, nil
}

func handleGetTask(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Slug string `json:"slug"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.GetTask.Execute(ctx, usecase.GetTaskInput{Slug: args.Slug})
	if err != nil {
		return nil, err
	}
	if out.Task == nil {
		return nil, fmt.Errorf("task %q not found", args.Slug)
	}
	return map[string]any{
		"task":     taskResult(out.Task),
		"sessions": sessionResults(out.Sessions),
	}, nil
}

func handleCreateTask(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Title         string   `json:"title"`
		WorkspacePath string   `json:"workspace_path"`
		Complexity    string   `json:"complexity"`
		Tags          []string `json:"tags"`
		DependsOn     []string `json:"depends_on"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.CreateTask.Execute(ctx, usecase.CreateTaskInput{
		Title:         args.Title,
		WorkspacePath: args.WorkspacePath,
		Complexity:    args.Complexity,
		Tags:          args.Tags,
		DependsOn:     args.DependsOn,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"task": taskResult(out.Task)}, nil
}

func handleArchiveTask(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Slug string `json:"slug"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.ArchiveTask.Execute(ctx, usecase.ArchiveTaskInput{Slug: args.Slug})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"task":      taskResult(out.Task),
		"unblocked": out.Unblocked,
	}, nil
}

func handleAddTaskDependency(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Slug      string `json:"slug"`
		DependsOn string `json:"depends_on"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.AddDependency.Execute(ctx, usecase.AddDependencyInput{
		Slug:      args.Slug,
		DependsOn: args.DependsOn,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"task": taskResult(out.Task)}, nil
}

func handleListReadyTasks(ctx context.Context, tc *ToolContext, _ json.RawMessage) (any, error) {
	out, err := tc.ListReady.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"tasks": taskResults(out.Tasks)}, nil
}

// taskResult renders a task in the compact form tool results use.
func taskResult(t *domain.Task) map[string]any {
	return map[string]any{
		"slug":           t.Slug,
		"title":          t.Title,
		"status":         t.Status,
		"workspace_path": t.WorkspacePath,
		"complexity":     t.Complexity,
		"tags":           t.Tags,
		"depends_on":     t.DependsOn,
		"created":        t.Created,
	}
}

func taskResults(tasks []*domain.Task) []map[string]any {
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResult(t))
	}
	return out
}
