package coordinator

import (
	"context"
	"encoding/json"

	"github.com/runoshun/squad/internal/usecase"
)

func handleCheckSessionConflicts(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		TaskSlug string `json:"task_slug"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.CheckConflicts.Execute(ctx, usecase.CheckConflictsInput{TaskSlug: args.TaskSlug})
	if err != nil {
		return nil, err
	}

	conflicts := make([]map[string]any, 0, len(out.Conflicts))
	for _, c := range out.Conflicts {
		conflicts = append(conflicts, map[string]any{
			"session_a": c.SessionA,
			"session_b": c.SessionB,
			"files":     c.Files,
		})
	}
	return map[string]any{"conflicts": conflicts}, nil
}

func handleMergeSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Force     bool   `json:"force"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.MergeSession.Execute(ctx, usecase.MergeSessionInput{
		ID:    args.SessionID,
		Force: args.Force,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"merged":    true,
		"branch":    out.Record.BranchName,
		"merge_sha": out.Record.MergeCommitSHA,
	}, nil
}

func handleRollbackSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.Rollback.Execute(ctx, usecase.RollbackSessionInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"reverted": true, "revert_sha": out.RevertCommitSHA}, nil
}
