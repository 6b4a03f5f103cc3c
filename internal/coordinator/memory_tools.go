package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

func handleStoreMemory(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Key       string `json:"key"`
		Content   string `json:"content"`
		Scope     string `json:"scope"`
		TaskSlug  string `json:"task_slug"`
		SessionID string `json:"session_id"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.StoreMemory.Execute(ctx, usecase.StoreMemoryInput{
		Key:       args.Key,
		Content:   args.Content,
		Scope:     args.Scope,
		TaskSlug:  args.TaskSlug,
		SessionID: args.SessionID,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": out.Entry.ID, "scope": out.Entry.Scope}, nil
}

func handleListMemory(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		TaskSlug string `json:"task_slug"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	entries, err := tc.Memory.List(args.TaskSlug)
	if err != nil {
		return nil, err
	}
	return map[string]any{"entries": memoryResults(entries)}, nil
}

func handleSearchMemory(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	entries, err := tc.Memory.Search(args.Query)
	if err != nil {
		return nil, err
	}
	return map[string]any{"entries": memoryResults(entries)}, nil
}

func handleDeleteMemory(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := tc.Memory.Delete(args.ID); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": args.ID}, nil
}

func memoryResults(entries []*domain.MemoryEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"id":         e.ID,
			"key":        e.Key,
			"content":    e.Content,
			"scope":      e.Scope,
			"task_slug":  e.TaskSlug,
			"session_id": e.SessionID,
			"created":    e.Created,
		})
	}
	return out
}
