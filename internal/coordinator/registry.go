package coordinator

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/runoshun/squad/internal/infra/llm"
)

// Handler executes one tool call. Errors become {"error": ...} results;
// they never abort the conversation turn.
type Handler func(ctx context.Context, tc *ToolContext, args json.RawMessage) (any, error)

// Tool couples a model-visible definition with its handler.
// Fields are ordered to minimize memory padding.
type Tool struct {
	Description string
	Schema      string // JSON Schema of the arguments object
	Handler     Handler
}

// builtinTools returns the closed tool registry. The map is rebuilt per
// engine so tests can shadow entries without global state.
func builtinTools() map[string]Tool {
	return map[string]Tool{
		// Task tools.
		"list_tasks": {
			Description: "List tasks with status, tags, and dependencies",
			Schema:      `{"type":"object","properties":{"include_archived":{"type":"boolean","description":"Include archived tasks"}}}`,
			Handler:     handleListTasks,
		},
		"get_task": {
			Description: "Get one task with its sessions",
			Schema:      `{"type":"object","properties":{"slug":{"type":"string","description":"Task slug"}},"required":["slug"]}`,
			Handler:     handleGetTask,
		},
		"create_task": {
			Description: "Create a task. Set workspace_path to the git repository the work targets; set complexity (junior, mid, senior) when the tier is already clear",
			Schema:      `{"type":"object","properties":{"title":{"type":"string","description":"Task title; the slug is derived from it"},"workspace_path":{"type":"string","description":"Absolute path to the target git repository"},"complexity":{"type":"string","enum":["junior","mid","senior"],"description":"Routing hint"},"tags":{"type":"array","items":{"type":"string"},"description":"Free-form tags, also used for routing"},"depends_on":{"type":"array","items":{"type":"string"},"description":"Slugs this task waits for"}},"required":["title"]}`,
			Handler:     handleCreateTask,
		},
		"archive_task": {
			Description: "Archive a finished task; reports which dependent tasks became unblocked",
			Schema:      `{"type":"object","properties":{"slug":{"type":"string","description":"Task slug"}},"required":["slug"]}`,
			Handler:     handleArchiveTask,
		},
		"add_task_dependency": {
			Description: "Make one task depend on another; cycles are rejected",
			Schema:      `{"type":"object","properties":{"slug":{"type":"string","description":"Task that gains the dependency"},"depends_on":{"type":"string","description":"Task it must wait for"}},"required":["slug","depends_on"]}`,
			Handler:     handleAddTaskDependency,
		},
		"list_ready_tasks": {
			Description: "List active tasks whose dependencies are all archived",
			Schema:      `{"type":"object","properties":{}}`,
			Handler:     handleListReadyTasks,
		},

		// Session tools.
		"list_sessions": {
			Description: "List sessions, optionally filtered by task",
			Schema:      `{"type":"object","properties":{"task_slug":{"type":"string","description":"Task slug to filter by (empty for all)"}}}`,
			Handler:     handleListSessions,
		},
		"get_session": {
			Description: "Get one session's full record",
			Schema:      sessionIDSchema,
			Handler:     handleGetSession,
		},
		"start_coding_session": {
			Description: "Start a coding session on a task. Choose the lowest tier capable of the work: claude-code (senior, complex), opencode (mid, implementation), claude-local (junior, simple). Leave agent empty to let routing decide",
			Schema:      `{"type":"object","properties":{"task_slug":{"type":"string","description":"Task slug"},"agent":{"type":"string","enum":["claude-local","opencode","claude-code"],"description":"Explicit tier override"},"prompt":{"type":"string","description":"Initial instructions"},"model":{"type":"string","description":"Model override"}},"required":["task_slug"]}`,
			Handler:     handleStartCodingSession,
		},
		"stop_session": {
			Description: "Stop a running or paused session and remove its worktree",
			Schema:      sessionIDSchema,
			Handler:     handleStopSession,
		},
		"pause_session": {
			Description: "Suspend a running session with SIGSTOP",
			Schema:      sessionIDSchema,
			Handler:     handlePauseSession,
		},
		"resume_session": {
			Description: "Continue a paused session with SIGCONT",
			Schema:      sessionIDSchema,
			Handler:     handleResumeSession,
		},
		"archive_session": {
			Description: "Archive a session, stopping it first if still live",
			Schema:      sessionIDSchema,
			Handler:     handleArchiveSession,
		},
		"get_session_output": {
			Description: "Capture recent output from a session's terminal pane",
			Schema:      `{"type":"object","properties":{"session_id":{"type":"string","description":"Session id"},"lines":{"type":"integer","description":"Scrollback lines (default 50)"}},"required":["session_id"]}`,
			Handler:     handleGetSessionOutput,
		},
		"send_to_session": {
			Description: "Type text plus Enter into a session's terminal",
			Schema:      `{"type":"object","properties":{"session_id":{"type":"string","description":"Session id"},"text":{"type":"string","description":"Text to send"}},"required":["session_id","text"]}`,
			Handler:     handleSendToSession,
		},
		"check_session_liveness": {
			Description: "Check whether a session's process is still alive",
			Schema:      sessionIDSchema,
			Handler:     handleCheckSessionLiveness,
		},
		"get_session_diff": {
			Description: "Get the uncommitted diff in a session's worktree",
			Schema:      sessionIDSchema,
			Handler:     handleGetSessionDiff,
		},
		"run_in_worktree": {
			Description: "Run a command in a session's worktree (60 second cap)",
			Schema:      `{"type":"object","properties":{"session_id":{"type":"string","description":"Session id"},"command":{"type":"string","description":"Command line, split shell-style without a shell"}},"required":["session_id","command"]}`,
			Handler:     handleRunInWorktree,
		},
		"set_session_deadline": {
			Description: "Auto-stop a session after the given minutes",
			Schema:      `{"type":"object","properties":{"session_id":{"type":"string","description":"Session id"},"minutes":{"type":"integer","description":"Minutes until auto-stop"}},"required":["session_id","minutes"]}`,
			Handler:     handleSetSessionDeadline,
		},

		// Conflict and merge tools.
		"check_session_conflicts": {
			Description: "Find live sessions of a task editing the same files",
			Schema:      `{"type":"object","properties":{"task_slug":{"type":"string","description":"Task slug"}},"required":["task_slug"]}`,
			Handler:     handleCheckSessionConflicts,
		},
		"merge_session": {
			Description: "Merge a session's branch into its task workspace; refused on overlapping edits unless force",
			Schema:      `{"type":"object","properties":{"session_id":{"type":"string","description":"Session id"},"force":{"type":"boolean","description":"Merge despite overlapping edits"}},"required":["session_id"]}`,
			Handler:     handleMergeSession,
		},
		"rollback_session": {
			Description: "Revert a session's recorded merge commit",
			Schema:      sessionIDSchema,
			Handler:     handleRollbackSession,
		},

		// Memory tools.
		"store_memory": {
			Description: "Store a shared memory entry for future sessions",
			Schema:      `{"type":"object","properties":{"key":{"type":"string","description":"Short identifying key"},"content":{"type":"string","description":"The information to remember"},"scope":{"type":"string","enum":["task","session","global"],"description":"Visibility scope (inferred from owners when empty)"},"task_slug":{"type":"string","description":"Owning task for task scope"},"session_id":{"type":"string","description":"Owning session for session scope"}},"required":["key","content"]}`,
			Handler:     handleStoreMemory,
		},
		"list_memory": {
			Description: "List memory entries, optionally filtered by task",
			Schema:      `{"type":"object","properties":{"task_slug":{"type":"string","description":"Task slug to filter by (empty for all)"}}}`,
			Handler:     handleListMemory,
		},
		"search_memory": {
			Description: "Search memory keys and content, case-insensitively",
			Schema:      `{"type":"object","properties":{"query":{"type":"string","description":"Substring to search for"}},"required":["query"]}`,
			Handler:     handleSearchMemory,
		},
		"delete_memory": {
			Description: "Delete a memory entry by id",
			Schema:      `{"type":"object","properties":{"id":{"type":"string","description":"Memory entry id"}},"required":["id"]}`,
			Handler:     handleDeleteMemory,
		},

		// Report and admin tools.
		"review_session": {
			Description: "Review a session's work: diff stats, optional test run, stored report. Failed junior or mid work escalates one tier automatically",
			Schema:      sessionIDSchema,
			Handler:     handleReviewSession,
		},
		"get_session_report": {
			Description: "Get the stored review report for a session",
			Schema:      sessionIDSchema,
			Handler:     handleGetSessionReport,
		},
		"usage_summary": {
			Description: "Summarize LLM usage per provider and model",
			Schema:      `{"type":"object","properties":{"hours":{"type":"integer","description":"Recent window in hours (default 24)"}}}`,
			Handler:     handleUsageSummary,
		},
		"list_playbooks": {
			Description: "List available playbooks",
			Schema:      `{"type":"object","properties":{}}`,
			Handler:     handleListPlaybooks,
		},
		"get_playbook": {
			Description: "Get a playbook's prompt and steps by name",
			Schema:      `{"type":"object","properties":{"name":{"type":"string","description":"Playbook name"}},"required":["name"]}`,
			Handler:     handleGetPlaybook,
		},
	}
}

// sessionIDSchema covers the many tools whose only argument is a
// session id.
const sessionIDSchema = `{"type":"object","properties":{"session_id":{"type":"string","description":"Session id"}},"required":["session_id"]}`

// definitions renders the registry as provider tool definitions, sorted
// by name so the wire order is stable across calls.
func definitions(tools map[string]Tool) []llm.ToolDefinition {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, llm.ToolDefinition{
			Name:        name,
			Description: tools[name].Description,
			InputSchema: json.RawMessage(tools[name].Schema),
		})
	}
	return defs
}
