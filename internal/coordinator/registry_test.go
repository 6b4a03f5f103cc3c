package coordinator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTools_Registry(t *testing.T) {
	tools := builtinTools()

	for name, tool := range tools {
		assert.NotNil(t, tool.Handler, "tool %s has no handler", name)
		assert.NotEmpty(t, tool.Description, "tool %s has no description", name)
		assert.True(t, json.Valid([]byte(tool.Schema)), "tool %s schema is not valid JSON", name)
	}
}

func TestDefinitions_SortedAndComplete(t *testing.T) {
	// Setup
	tools := builtinTools()

	// Execute
	defs := definitions(tools)

	// Assert: the wire order is the full registry, sorted by name.
	require.Len(t, defs, len(tools))
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
		assert.Equal(t, tools[def.Name].Description, def.Description)
		assert.True(t, json.Valid(def.InputSchema), "definition %s schema invalid", def.Name)
	}
	assert.IsIncreasing(t, names)
}

func TestBuiltinTools_ClosedSet(t *testing.T) {
	want := []string{
		"add_task_dependency",
		"archive_session",
		"archive_task",
		"check_session_conflicts",
		"check_session_liveness",
		"create_task",
		"delete_memory",
		"get_playbook",
		"get_session",
		"get_session_diff",
		"get_session_output",
		"get_session_report",
		"get_task",
		"list_memory",
		"list_playbooks",
		"list_ready_tasks",
		"list_sessions",
		"list_tasks",
		"merge_session",
		"pause_session",
		"resume_session",
		"review_session",
		"rollback_session",
		"run_in_worktree",
		"search_memory",
		"send_to_session",
		"set_session_deadline",
		"start_coding_session",
		"stop_session",
		"store_memory",
		"usage_summary",
	}

	defs := definitions(builtinTools())

	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	assert.Equal(t, want, names)
}
