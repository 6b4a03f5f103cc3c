package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

// sessionIDArgs is the argument shape shared by the single-session
// tools.
type sessionIDArgs struct {
	SessionID string `json:"session_id"`
}

func handleListSessions(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		TaskSlug string `json:"task_slug"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var (
		sessions []*domain.Session
		err      error
	)
	if args.TaskSlug != "" {
		sessions, err = tc.Sessions.ListByTask(args.TaskSlug)
	} else {
		sessions, err = tc.Sessions.List()
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"sessions": sessionResults(sessions)}, nil
}

func handleGetSession(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	session, err := findSession(tc, args.SessionID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"session": sessionResult(session)}, nil
}

func handleStartCodingSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		TaskSlug string `json:"task_slug"`
		Agent    string `json:"agent"`
		Prompt   string `json:"prompt"`
		Model    string `json:"model"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.StartSession.Execute(ctx, usecase.StartSessionInput{
		TaskSlug:  args.TaskSlug,
		AgentType: args.Agent,
		Prompt:    args.Prompt,
		Model:     args.Model,
	})
	if err != nil {
		return nil, err
	}
	result := map[string]any{"session": sessionResult(out.Session)}
	if out.SpawnError != "" {
		result["spawn_error"] = out.SpawnError
	}
	return result, nil
}

func handleStopSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.StopSession.Execute(ctx, usecase.StopSessionInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	tc.Deadlines.Clear(args.SessionID)
	return map[string]any{"session": sessionResult(out.Session)}, nil
}

func handlePauseSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.PauseSession.Execute(ctx, usecase.PauseSessionInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"session": sessionResult(out.Session)}, nil
}

func handleResumeSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.ResumeSession.Execute(ctx, usecase.ResumeSessionInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"session": sessionResult(out.Session)}, nil
}

func handleArchiveSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.ArchiveSession.Execute(ctx, usecase.ArchiveSessionInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	tc.Deadlines.Clear(args.SessionID)
	return map[string]any{"session": sessionResult(out.Session)}, nil
}

func handleGetSessionOutput(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Lines     int    `json:"lines"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.SessionOutput.Execute(ctx, usecase.GetSessionOutputInput{
		ID:    args.SessionID,
		Lines: args.Lines,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"output": out.Output}, nil
}

func handleSendToSession(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.SendToSession.Execute(ctx, usecase.SendToSessionInput{
		ID:   args.SessionID,
		Text: args.Text,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"sent": out.Sent}, nil
}

func handleCheckSessionLiveness(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.CheckLiveness.Execute(ctx, usecase.CheckLivenessInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"alive": out.Alive}, nil
}

func handleGetSessionDiff(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args sessionIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.SessionDiff.Execute(ctx, usecase.GetSessionDiffInput{ID: args.SessionID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"diff": out.Diff, "truncated": out.Truncated}, nil
}

func handleRunInWorktree(ctx context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Command   string `json:"command"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	out, err := tc.RunInWorktree.Execute(ctx, usecase.RunInWorktreeInput{
		ID:      args.SessionID,
		Command: args.Command,
	})
	if err != nil {
		return nil, err
	}
	result := map[string]any{"output": out.Output, "timed_out": out.TimedOut}
	if out.ExitError != "" {
		result["exit_error"] = out.ExitError
	}
	return result, nil
}

func handleSetSessionDeadline(_ context.Context, tc *ToolContext, raw json.RawMessage) (any, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Minutes   int    `json:"minutes"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Minutes <= 0 {
		return nil, fmt.Errorf("minutes must be positive")
	}
	session, err := findSession(tc, args.SessionID)
	if err != nil {
		return nil, err
	}
	deadline := tc.Clock.Now().Add(time.Duration(args.Minutes) * time.Minute)
	tc.Deadlines.Set(session.ID, deadline)
	return map[string]any{"session_id": session.ID, "deadline": deadline}, nil
}

// sessionResult renders a session in the compact form tool results use.
func sessionResult(s *domain.Session) map[string]any {
	return map[string]any{
		"id":            s.ID,
		"task_slug":     s.TaskSlug,
		"kind":          s.Kind,
		"lifecycle":     s.Lifecycle,
		"agent":         s.AgentBackend,
		"worktree_path": s.WorktreePath,
		"branch":        s.BranchName,
		"created":       s.Created,
	}
}

func sessionResults(sessions []*domain.Session) []map[string]any {
	out := make([]map[string]any, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResult(s))
	}
	return out
}
