package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

func handleReviewSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.Review.Execute(ctx, usecase.ReviewSessionInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	result := map[string]any{"report": reportResult(out.Report)}
	if out.EscalatedTo != "" {
		result["escalated_to"] = out.EscalatedTo
		if out.EscalationSession != nil {
			result["escalation_session"] = sessionResult(out.EscalationSession)
		}
	}
	return result, nil
}

func handleGetSessionReport(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	report, err := tc.Reports.FindBySession(args.SessionID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("session %q has no report", args.SessionID)
	}
	return map[string]any{"report": reportResult(report)}, nil
}

func handleUsageSummary(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		Hours int `json:"hours"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	hours := args.Hours
	if hours <= 0 {
		hours = 24
	}

	cutoff := tc.Clock.Now().Add(-time.Duration(hours) * time.Hour)
	recent, err := tc.Usage.AggregateSince(cutoff)
	if err != nil {
		return nil, err
	}
	allTime, err := tc.Usage.AggregateTotals()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"window_hours": hours,
		"recent":       recent,
		"all_time":     allTime,
	}, nil
}

func reportResult(r *domain.SessionReport) map[string]any {
	return map[string]any{
		"session_id":    r.SessionID,
		"task_slug":     r.TaskSlug,
		"status":        r.Status,
		"summary":       r.Summary,
		"files_changed": r.FilesChanged,
		"insertions":    r.Insertions,
		"deletions":     r.Deletions,
		"tests_passed":  r.TestsPassed,
		"tests_failed":  r.TestsFailed,
		"test_errors":   r.TestErrors,
		"created":       r.Created,
	}
}
