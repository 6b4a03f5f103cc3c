package coordinator

import (
	"context"
	"encoding/json"
)

func handleListPlaybooks(_ context.Context, tc *ToolContext, _ json.RawMessage) (any, error) {
	playbooks, err := tc.Playbooks.List()
	if err != nil {
		return nil, err
	}
	summaries := make([]map[string]any, 0, len(playbooks))
	for _, p := range playbooks {
		summaries = append(summaries, map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"tags":        p.Tags,
		})
	}
	return map[string]any{"playbooks": summaries}, nil
}

func handleGetPlaybook(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Name string `json:"name"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	playbook, err := tc.Playbooks.Get(args.Name)
	if err != nil {
		return nil, err
	}
	return map[string]any{"playbook": playbook}, nil
}
