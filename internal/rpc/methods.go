package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/runoshun/squad/internal/app"
	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

// Methods builds the closed method table the server dispatches on.
// Handlers adapt wire parameters to use cases; reads with no policy
// of their own go straight to the repositories.
func Methods(c *app.Container, version string, started time.Time) map[string]Handler {
	m := make(map[string]Handler)
	registerServerMethods(m, c, version, started)
	registerTaskMethods(m, c)
	registerSessionMethods(m, c)
	registerCoordinatorMethods(m, c)
	registerMemoryMethods(m, c)
	registerUsageMethods(m, c)
	registerWorkspaceMethods(m, c)
	registerReportMethods(m, c)
	registerEventMethods(m, c)
	registerPlaybookMethods(m, c)
	return m
}

// decodeParams unmarshals raw params into dst. Absent params decode
// as the zero value so parameterless methods accept bare requests.
func decodeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}

func requireString(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Code: CodeInvalidParams, Message: name + " is required"}
	}
	return nil
}

func registerServerMethods(m map[string]Handler, c *app.Container, version string, started time.Time) {
	m["server.ping"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		return "pong", nil
	}

	m["server.status"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		tasks, err := c.Tasks.List(false)
		if err != nil {
			return nil, err
		}
		sessions, err := c.Sessions.List()
		if err != nil {
			return nil, err
		}
		running := 0
		for _, s := range sessions {
			if s.Lifecycle == domain.LifecycleRunning {
				running++
			}
		}
		return &StatusInfo{
			Version:         version,
			UptimeSeconds:   int64(c.Clock.Now().Sub(started).Seconds()),
			Tasks:           len(tasks),
			Sessions:        len(sessions),
			RunningSessions: running,
		}, nil
	}
}

func registerTaskMethods(m map[string]Handler, c *app.Container) {
	m["task.create"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Title         string   `json:"title"`
			WorkspacePath string   `json:"workspace_path"`
			Complexity    string   `json:"complexity"`
			Tags          []string `json:"tags"`
			DependsOn     []string `json:"depends_on"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("title", p.Title); err != nil {
			return nil, err
		}
		out, err := c.CreateTaskUseCase().Execute(ctx, usecase.CreateTaskInput{
			Title:         p.Title,
			WorkspacePath: p.WorkspacePath,
			Complexity:    p.Complexity,
			Tags:          p.Tags,
			DependsOn:     p.DependsOn,
		})
		if err != nil {
			return nil, err
		}
		return taskInfo(out.Task), nil
	}

	m["task.get"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Slug string `json:"slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("slug", p.Slug); err != nil {
			return nil, err
		}
		out, err := c.GetTaskUseCase().Execute(ctx, usecase.GetTaskInput{Slug: p.Slug})
		if err != nil {
			return nil, err
		}
		if out.Task == nil {
			return nil, nil
		}
		return &TaskDetailInfo{Task: taskInfo(out.Task), Sessions: sessionInfos(out.Sessions)}, nil
	}

	m["task.list"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			IncludeArchived bool `json:"include_archived"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		out, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{IncludeArchived: p.IncludeArchived})
		if err != nil {
			return nil, err
		}
		return taskInfos(out.Tasks), nil
	}

	m["task.archive"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Slug string `json:"slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("slug", p.Slug); err != nil {
			return nil, err
		}
		out, err := c.ArchiveTaskUseCase().Execute(ctx, usecase.ArchiveTaskInput{Slug: p.Slug})
		if err != nil {
			return nil, err
		}
		return &ArchiveTaskInfo{Task: taskInfo(out.Task), Unblocked: out.Unblocked}, nil
	}

	m["task.delete"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Slug string `json:"slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("slug", p.Slug); err != nil {
			return nil, err
		}
		out, err := c.DeleteTaskUseCase().Execute(ctx, usecase.DeleteTaskInput{Slug: p.Slug})
		if err != nil {
			return nil, err
		}
		return taskInfo(out.Task), nil
	}

	m["task.add_dependency"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Slug      string `json:"slug"`
			DependsOn string `json:"depends_on"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("slug", p.Slug); err != nil {
			return nil, err
		}
		if err := requireString("depends_on", p.DependsOn); err != nil {
			return nil, err
		}
		out, err := c.AddDependencyUseCase().Execute(ctx, usecase.AddDependencyInput{
			Slug:      p.Slug,
			DependsOn: p.DependsOn,
		})
		if err != nil {
			return nil, err
		}
		return taskInfo(out.Task), nil
	}

	m["task.ready"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		out, err := c.ListReadyUseCase().Execute(ctx)
		if err != nil {
			return nil, err
		}
		return taskInfos(out.Tasks), nil
	}
}

func registerSessionMethods(m map[string]Handler, c *app.Container) {
	m["session.start_coding"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			TaskSlug  string `json:"task_slug"`
			AgentType string `json:"agent_type"`
			Prompt    string `json:"prompt"`
			Model     string `json:"model"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("task_slug", p.TaskSlug); err != nil {
			return nil, err
		}
		out, err := c.StartSessionUseCase().Execute(ctx, usecase.StartSessionInput{
			TaskSlug:  p.TaskSlug,
			AgentType: p.AgentType,
			Prompt:    p.Prompt,
			Model:     p.Model,
		})
		if err != nil {
			return nil, err
		}
		return &StartSessionInfo{Session: sessionInfo(out.Session), SpawnError: out.SpawnError}, nil
	}

	m["session.get"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		session, err := c.Sessions.FindByID(p.SessionID)
		if err != nil {
			return nil, err
		}
		return sessionInfo(session), nil
	}

	m["session.list"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			TaskSlug string `json:"task_slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		var (
			sessions []*domain.Session
			err      error
		)
		if p.TaskSlug != "" {
			sessions, err = c.Sessions.ListByTask(p.TaskSlug)
		} else {
			sessions, err = c.Sessions.List()
		}
		if err != nil {
			return nil, err
		}
		return sessionInfos(sessions), nil
	}

	m["session.stop"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.StopSessionUseCase().Execute(ctx, usecase.StopSessionInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return sessionInfo(out.Session), nil
	}

	m["session.pause"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.PauseSessionUseCase().Execute(ctx, usecase.PauseSessionInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return sessionInfo(out.Session), nil
	}

	m["session.resume"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.ResumeSessionUseCase().Execute(ctx, usecase.ResumeSessionInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return sessionInfo(out.Session), nil
	}

	m["session.archive"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.ArchiveSessionUseCase().Execute(ctx, usecase.ArchiveSessionInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return sessionInfo(out.Session), nil
	}

	m["session.get_output"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			SessionID string `json:"session_id"`
			Lines     int    `json:"lines"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("session_id", p.SessionID); err != nil {
			return nil, err
		}
		out, err := c.SessionOutputUseCase().Execute(ctx, usecase.GetSessionOutputInput{
			ID:    p.SessionID,
			Lines: p.Lines,
		})
		if err != nil {
			return nil, err
		}
		return out.Output, nil
	}

	m["session.send_to"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			SessionID string `json:"session_id"`
			Text      string `json:"text"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("session_id", p.SessionID); err != nil {
			return nil, err
		}
		out, err := c.SendToSessionUseCase().Execute(ctx, usecase.SendToSessionInput{
			ID:   p.SessionID,
			Text: p.Text,
		})
		if err != nil {
			return nil, err
		}
		return out.Sent, nil
	}

	m["session.check_liveness"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.CheckLivenessUseCase().Execute(ctx, usecase.CheckLivenessInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return out.Alive, nil
	}

	m["session.get_diff"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.SessionDiffUseCase().Execute(ctx, usecase.GetSessionDiffInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return &DiffInfo{Diff: out.Diff, Truncated: out.Truncated}, nil
	}

	m["session.run_in_worktree"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			SessionID string `json:"session_id"`
			Command   string `json:"command"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("session_id", p.SessionID); err != nil {
			return nil, err
		}
		if err := requireString("command", p.Command); err != nil {
			return nil, err
		}
		out, err := c.RunInWorktreeUseCase().Execute(ctx, usecase.RunInWorktreeInput{
			ID:      p.SessionID,
			Command: p.Command,
		})
		if err != nil {
			return nil, err
		}
		return &RunResultInfo{
			Output:    out.Output,
			ExitError: out.ExitError,
			TimedOut:  out.TimedOut,
			Truncated: out.Truncated,
		}, nil
	}

	m["session.conflicts"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			TaskSlug string `json:"task_slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("task_slug", p.TaskSlug); err != nil {
			return nil, err
		}
		out, err := c.CheckConflictsUseCase().Execute(ctx, usecase.CheckConflictsInput{TaskSlug: p.TaskSlug})
		if err != nil {
			return nil, err
		}
		conflicts := make([]*ConflictInfo, 0, len(out.Conflicts))
		for _, conflict := range out.Conflicts {
			conflicts = append(conflicts, &ConflictInfo{
				SessionA: conflict.SessionA,
				SessionB: conflict.SessionB,
				Files:    conflict.Files,
			})
		}
		return conflicts, nil
	}

	m["session.merge"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			SessionID string `json:"session_id"`
			Force     bool   `json:"force"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("session_id", p.SessionID); err != nil {
			return nil, err
		}
		out, err := c.MergeSessionUseCase().Execute(ctx, usecase.MergeSessionInput{
			ID:    p.SessionID,
			Force: p.Force,
		})
		if err != nil {
			return nil, err
		}
		return mergeInfo(out.Record), nil
	}

	m["session.rollback"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.RollbackSessionUseCase().Execute(ctx, usecase.RollbackSessionInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return map[string]string{"revert_commit_sha": out.RevertCommitSHA}, nil
	}

	m["session.review"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		out, err := c.ReviewSessionUseCase().Execute(ctx, usecase.ReviewSessionInput{ID: p.SessionID})
		if err != nil {
			return nil, err
		}
		return &ReviewInfo{
			Report:            reportInfo(out.Report),
			EscalatedTo:       string(out.EscalatedTo),
			EscalationSession: sessionInfo(out.EscalationSession),
		}, nil
	}
}

func registerCoordinatorMethods(m map[string]Handler, c *app.Container) {
	m["coordinator.message"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Message  string `json:"message"`
			Channel  string `json:"channel"`
			SenderID string `json:"sender_id"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("message", p.Message); err != nil {
			return nil, err
		}
		if p.Channel == "" {
			p.Channel = "cli"
		}
		if p.SenderID == "" {
			p.SenderID = "operator"
		}
		response, err := c.Engine.HandleMessage(ctx, p.Channel, p.SenderID, p.Message)
		if err != nil {
			return nil, err
		}
		return map[string]string{"response": response}, nil
	}

	m["coordinator.ask"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Question string `json:"question"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("question", p.Question); err != nil {
			return nil, err
		}
		answer, err := c.Engine.Ask(ctx, p.Question)
		if err != nil {
			return nil, err
		}
		return map[string]string{"response": answer}, nil
	}
}

func registerMemoryMethods(m map[string]Handler, c *app.Container) {
	m["memory.store"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Key       string `json:"key"`
			Content   string `json:"content"`
			Scope     string `json:"scope"`
			TaskSlug  string `json:"task_slug"`
			SessionID string `json:"session_id"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("key", p.Key); err != nil {
			return nil, err
		}
		if err := requireString("content", p.Content); err != nil {
			return nil, err
		}
		out, err := c.StoreMemoryUseCase().Execute(ctx, usecase.StoreMemoryInput{
			Key:       p.Key,
			Content:   p.Content,
			Scope:     p.Scope,
			TaskSlug:  p.TaskSlug,
			SessionID: p.SessionID,
		})
		if err != nil {
			return nil, err
		}
		return memoryInfo(out.Entry), nil
	}

	m["memory.list"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			TaskSlug string `json:"task_slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		entries, err := c.Memory.List(p.TaskSlug)
		if err != nil {
			return nil, err
		}
		return memoryInfos(entries), nil
	}

	m["memory.search"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Query string `json:"query"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("query", p.Query); err != nil {
			return nil, err
		}
		entries, err := c.Memory.Search(p.Query)
		if err != nil {
			return nil, err
		}
		return memoryInfos(entries), nil
	}

	m["memory.delete"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			ID string `json:"id"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("id", p.ID); err != nil {
			return nil, err
		}
		if err := c.Memory.Delete(p.ID); err != nil {
			return nil, err
		}
		return true, nil
	}
}

func registerUsageMethods(m map[string]Handler, c *app.Container) {
	m["usage.list_recent"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Limit int `json:"limit"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.Limit <= 0 {
			p.Limit = 50
		}
		events, err := c.Usage.ListRecent(p.Limit)
		if err != nil {
			return nil, err
		}
		return usageEventInfos(events), nil
	}

	m["usage.aggregate_recent"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Hours int `json:"hours"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.Hours <= 0 {
			p.Hours = 24
		}
		cutoff := c.Clock.Now().Add(-time.Duration(p.Hours) * time.Hour)
		totals, err := c.Usage.AggregateSince(cutoff)
		if err != nil {
			return nil, err
		}
		return usageTotalsInfos(totals), nil
	}

	m["usage.aggregate_totals"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		totals, err := c.Usage.AggregateTotals()
		if err != nil {
			return nil, err
		}
		return usageTotalsInfos(totals), nil
	}
}

func registerWorkspaceMethods(m map[string]Handler, c *app.Container) {
	m["workspace.insert"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Name          string `json:"name"`
			Path          string `json:"path"`
			DefaultBranch string `json:"default_branch"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("path", p.Path); err != nil {
			return nil, err
		}
		if p.Name == "" {
			p.Name = filepath.Base(p.Path)
		}
		ws := &domain.Workspace{
			Created:       c.Clock.Now(),
			Name:          p.Name,
			Path:          p.Path,
			DefaultBranch: p.DefaultBranch,
		}
		if err := c.Workspaces.Insert(ws); err != nil {
			return nil, err
		}
		return workspaceInfo(ws), nil
	}

	m["workspace.find_by_path"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("path", p.Path); err != nil {
			return nil, err
		}
		ws, err := c.Workspaces.FindByPath(p.Path)
		if err != nil {
			return nil, err
		}
		return workspaceInfo(ws), nil
	}

	m["workspace.list_all"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		workspaces, err := c.Workspaces.ListAll()
		if err != nil {
			return nil, err
		}
		return workspaceInfos(workspaces), nil
	}

	m["workspace.delete"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Name string `json:"name"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("name", p.Name); err != nil {
			return nil, err
		}
		if err := c.Workspaces.Delete(p.Name); err != nil {
			return nil, err
		}
		return true, nil
	}
}

func registerReportMethods(m map[string]Handler, c *app.Container) {
	m["report.get"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		report, err := c.Reports.FindBySession(p.SessionID)
		if err != nil {
			return nil, err
		}
		return reportInfo(report), nil
	}

	m["report.list_by_task"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			TaskSlug string `json:"task_slug"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("task_slug", p.TaskSlug); err != nil {
			return nil, err
		}
		reports, err := c.Reports.ListByTask(p.TaskSlug)
		if err != nil {
			return nil, err
		}
		return reportInfos(reports), nil
	}
}

func registerEventMethods(m map[string]Handler, c *app.Container) {
	m["event.list_unacknowledged"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		events, err := c.Events.ListUnacknowledged()
		if err != nil {
			return nil, err
		}
		return eventInfos(events), nil
	}

	m["event.acknowledge"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			ID string `json:"id"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("id", p.ID); err != nil {
			return nil, err
		}
		if err := c.Events.Acknowledge(p.ID); err != nil {
			return nil, err
		}
		return true, nil
	}

	m["event.list_by_session"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		p, err := sessionParams(params)
		if err != nil {
			return nil, err
		}
		events, err := c.Events.ListBySession(p.SessionID)
		if err != nil {
			return nil, err
		}
		return eventInfos(events), nil
	}
}

func registerPlaybookMethods(m map[string]Handler, c *app.Container) {
	m["playbook.list"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		playbooks, err := c.Playbooks.List()
		if err != nil {
			return nil, err
		}
		return playbooks, nil
	}

	m["playbook.get"] = func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Name string `json:"name"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := requireString("name", p.Name); err != nil {
			return nil, err
		}
		playbook, err := c.Playbooks.Get(p.Name)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return playbook, err
	}
}

type sessionIDParams struct {
	SessionID string `json:"session_id"`
}

func sessionParams(params json.RawMessage) (*sessionIDParams, error) {
	var p sessionIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := requireString("session_id", p.SessionID); err != nil {
		return nil, err
	}
	return &p, nil
}
