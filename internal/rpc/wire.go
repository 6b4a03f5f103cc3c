package rpc

import (
	"time"

	"github.com/runoshun/squad/internal/domain"
)

// Wire forms of the domain entities. Identifiers that the store keeps
// as map keys travel as plain fields here so both ends see complete
// records.

// StatusInfo is the server.status result.
type StatusInfo struct {
	Version         string `json:"version"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	Tasks           int    `json:"tasks"`
	Sessions        int    `json:"sessions"`
	RunningSessions int    `json:"running_sessions"`
}

// TaskInfo is the wire form of a task.
type TaskInfo struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	WorkspacePath string    `json:"workspace_path,omitempty"`
	Complexity    string    `json:"complexity,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	DependsOn     []string  `json:"depends_on,omitempty"`
	Created       time.Time `json:"created_at"`
	Updated       time.Time `json:"updated_at"`
}

// AttachmentInfo is the wire form of a session's process attachment.
type AttachmentInfo struct {
	TmuxSession string `json:"tmux_session,omitempty"`
	TmuxWindow  string `json:"tmux_window,omitempty"`
	PaneID      string `json:"tmux_pane_id,omitempty"`
	PID         int    `json:"pid,omitempty"`
}

// SessionInfo is the wire form of a session.
type SessionInfo struct {
	ID           string         `json:"id"`
	TaskSlug     string         `json:"task_slug"`
	Kind         string         `json:"kind"`
	Lifecycle    string         `json:"lifecycle"`
	AgentBackend string         `json:"agent_backend"`
	Model        string         `json:"model,omitempty"`
	DisplayName  string         `json:"display_name"`
	WorktreePath string         `json:"worktree_path,omitempty"`
	BranchName   string         `json:"branch_name,omitempty"`
	Attachment   AttachmentInfo `json:"attachment"`
	Created      time.Time      `json:"created_at"`
	Updated      time.Time      `json:"updated_at"`
}

// MemoryInfo is the wire form of a memory entry.
type MemoryInfo struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	Scope     string    `json:"scope"`
	TaskSlug  string    `json:"task_slug,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Created   time.Time `json:"created_at"`
}

// UsageEventInfo is the wire form of one usage event.
type UsageEventInfo struct {
	ID               string    `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	SessionID        string    `json:"session_id,omitempty"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	Created          time.Time `json:"created_at"`
}

// UsageTotalsInfo is one provider/model aggregation row.
type UsageTotalsInfo struct {
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	Calls            int64  `json:"calls"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
}

// WorkspaceInfo is the wire form of a registered workspace.
type WorkspaceInfo struct {
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	Created       time.Time `json:"created_at"`
}

// ReportInfo is the wire form of a session review report.
type ReportInfo struct {
	SessionID     string    `json:"session_id"`
	TaskSlug      string    `json:"task_slug"`
	Status        string    `json:"status"`
	Summary       string    `json:"summary"`
	OutputSnippet string    `json:"output_snippet,omitempty"`
	FilesChanged  int       `json:"files_changed"`
	Insertions    int       `json:"insertions"`
	Deletions     int       `json:"deletions"`
	TestsPassed   int       `json:"tests_passed"`
	TestsFailed   int       `json:"tests_failed"`
	TestErrors    int       `json:"test_errors"`
	Created       time.Time `json:"created_at"`
}

// EventInfo is the wire form of an agent event.
type EventInfo struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id,omitempty"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Acknowledged bool      `json:"acknowledged"`
	Created      time.Time `json:"created_at"`
}

// MergeInfo is the wire form of a merge record.
type MergeInfo struct {
	SessionID       string    `json:"session_id"`
	TaskSlug        string    `json:"task_slug"`
	BranchName      string    `json:"branch_name"`
	MergeCommitSHA  string    `json:"merge_commit_sha"`
	RevertCommitSHA string    `json:"revert_commit_sha,omitempty"`
	Reverted        bool      `json:"reverted"`
	Created         time.Time `json:"created_at"`
}

// ConflictInfo is one pairwise file overlap between live sessions.
type ConflictInfo struct {
	SessionA string   `json:"session_a"`
	SessionB string   `json:"session_b"`
	Files    []string `json:"files"`
}

// DiffInfo is the session.get_diff result.
type DiffInfo struct {
	Diff      string `json:"diff"`
	Truncated bool   `json:"truncated"`
}

// RunResultInfo is the session.run_in_worktree result.
type RunResultInfo struct {
	Output    string `json:"output"`
	ExitError string `json:"exit_error,omitempty"`
	TimedOut  bool   `json:"timed_out"`
	Truncated bool   `json:"truncated"`
}

// StartSessionInfo is the session.start_coding result. SpawnError is
// set when the record was created but the agent process failed to
// come up.
type StartSessionInfo struct {
	Session    *SessionInfo `json:"session"`
	SpawnError string       `json:"spawn_error,omitempty"`
}

// ReviewInfo is the session.review result.
type ReviewInfo struct {
	Report            *ReportInfo  `json:"report"`
	EscalatedTo       string       `json:"escalated_to,omitempty"`
	EscalationSession *SessionInfo `json:"escalation_session,omitempty"`
}

// ArchiveTaskInfo is the task.archive result: the archived task plus
// the dependent tasks its completion unblocked.
type ArchiveTaskInfo struct {
	Task      *TaskInfo `json:"task"`
	Unblocked []string  `json:"unblocked,omitempty"`
}

// TaskDetailInfo is the task.get result.
type TaskDetailInfo struct {
	Task     *TaskInfo      `json:"task"`
	Sessions []*SessionInfo `json:"sessions"`
}

func taskInfo(t *domain.Task) *TaskInfo {
	if t == nil {
		return nil
	}
	return &TaskInfo{
		Slug:          t.Slug,
		Title:         t.Title,
		Status:        string(t.Status),
		WorkspacePath: t.WorkspacePath,
		Complexity:    t.Complexity,
		Tags:          t.Tags,
		DependsOn:     t.DependsOn,
		Created:       t.Created,
		Updated:       t.Updated,
	}
}

func taskInfos(tasks []*domain.Task) []*TaskInfo {
	infos := make([]*TaskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, taskInfo(t))
	}
	return infos
}

func sessionInfo(s *domain.Session) *SessionInfo {
	if s == nil {
		return nil
	}
	return &SessionInfo{
		ID:           s.ID,
		TaskSlug:     s.TaskSlug,
		Kind:         string(s.Kind),
		Lifecycle:    string(s.Lifecycle),
		AgentBackend: string(s.AgentBackend),
		Model:        s.Model,
		DisplayName:  s.DisplayName(),
		WorktreePath: s.WorktreePath,
		BranchName:   s.BranchName,
		Attachment: AttachmentInfo{
			TmuxSession: s.Attachment.TmuxSession,
			TmuxWindow:  s.Attachment.TmuxWindow,
			PaneID:      s.Attachment.PaneID,
			PID:         s.Attachment.PID,
		},
		Created: s.Created,
		Updated: s.Updated,
	}
}

func sessionInfos(sessions []*domain.Session) []*SessionInfo {
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, sessionInfo(s))
	}
	return infos
}

func memoryInfo(entry *domain.MemoryEntry) *MemoryInfo {
	if entry == nil {
		return nil
	}
	return &MemoryInfo{
		ID:        entry.ID,
		Key:       entry.Key,
		Content:   entry.Content,
		Scope:     string(entry.Scope),
		TaskSlug:  entry.TaskSlug,
		SessionID: entry.SessionID,
		Created:   entry.Created,
	}
}

func memoryInfos(entries []*domain.MemoryEntry) []*MemoryInfo {
	infos := make([]*MemoryInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, memoryInfo(entry))
	}
	return infos
}

func usageEventInfos(events []*domain.UsageEvent) []*UsageEventInfo {
	infos := make([]*UsageEventInfo, 0, len(events))
	for _, event := range events {
		infos = append(infos, &UsageEventInfo{
			ID:               event.ID,
			Provider:         event.Provider,
			Model:            event.Model,
			SessionID:        event.SessionID,
			PromptTokens:     event.PromptTokens,
			CompletionTokens: event.CompletionTokens,
			Created:          event.Created,
		})
	}
	return infos
}

func usageTotalsInfos(totals []domain.UsageTotals) []*UsageTotalsInfo {
	infos := make([]*UsageTotalsInfo, 0, len(totals))
	for _, t := range totals {
		infos = append(infos, &UsageTotalsInfo{
			Provider:         t.Provider,
			Model:            t.Model,
			Calls:            t.Calls,
			PromptTokens:     t.PromptTokens,
			CompletionTokens: t.CompletionTokens,
		})
	}
	return infos
}

func workspaceInfo(ws *domain.Workspace) *WorkspaceInfo {
	if ws == nil {
		return nil
	}
	return &WorkspaceInfo{
		Name:          ws.Name,
		Path:          ws.Path,
		DefaultBranch: ws.DefaultBranch,
		Created:       ws.Created,
	}
}

func workspaceInfos(workspaces []*domain.Workspace) []*WorkspaceInfo {
	infos := make([]*WorkspaceInfo, 0, len(workspaces))
	for _, ws := range workspaces {
		infos = append(infos, workspaceInfo(ws))
	}
	return infos
}

func reportInfo(report *domain.SessionReport) *ReportInfo {
	if report == nil {
		return nil
	}
	return &ReportInfo{
		SessionID:     report.SessionID,
		TaskSlug:      report.TaskSlug,
		Status:        string(report.Status),
		Summary:       report.Summary,
		OutputSnippet: report.OutputSnippet,
		FilesChanged:  report.FilesChanged,
		Insertions:    report.Insertions,
		Deletions:     report.Deletions,
		TestsPassed:   report.TestsPassed,
		TestsFailed:   report.TestsFailed,
		TestErrors:    report.TestErrors,
		Created:       report.Created,
	}
}

func reportInfos(reports []*domain.SessionReport) []*ReportInfo {
	infos := make([]*ReportInfo, 0, len(reports))
	for _, report := range reports {
		infos = append(infos, reportInfo(report))
	}
	return infos
}

func eventInfo(event *domain.AgentEvent) *EventInfo {
	if event == nil {
		return nil
	}
	return &EventInfo{
		ID:           event.ID,
		SessionID:    event.SessionID,
		Type:         string(event.Type),
		Message:      event.Message,
		Acknowledged: event.Acknowledged,
		Created:      event.Created,
	}
}

func eventInfos(events []*domain.AgentEvent) []*EventInfo {
	infos := make([]*EventInfo, 0, len(events))
	for _, event := range events {
		infos = append(infos, eventInfo(event))
	}
	return infos
}

func mergeInfo(record *domain.MergeRecord) *MergeInfo {
	if record == nil {
		return nil
	}
	return &MergeInfo{
		SessionID:       record.SessionID,
		TaskSlug:        record.TaskSlug,
		BranchName:      record.BranchName,
		MergeCommitSHA:  record.MergeCommitSHA,
		RevertCommitSHA: record.RevertCommitSHA,
		Reverted:        record.Reverted,
		Created:         record.Created,
	}
}
