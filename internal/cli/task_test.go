package cli

import (
	"fmt"
	"testing"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskNewCommand_CreatesTask(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["task.create"] = &rpc.TaskInfo{Slug: "fix-login-bug", Title: "Fix Login Bug"}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newTaskNewCommand(), "Fix Login Bug", "--complexity", "junior", "--tag", "auth")

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, out, "Created task: fix-login-bug (Fix Login Bug)")

	params := fake.params(t, 0)
	assert.Equal(t, "Fix Login Bug", params["title"])
	assert.Equal(t, "junior", params["complexity"])
	assert.Equal(t, []string{"auth"}, params["tags"])
	assert.True(t, fake.closed)
}

func TestTaskNewCommand_ResolvesWorkspacePath(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["task.create"] = &rpc.TaskInfo{Slug: "t", Title: "T"}
	withFakeServer(t, fake)
	dir := t.TempDir()

	// Execute
	_, err := runCommand(newTaskNewCommand(), "T", "--workspace", dir)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, dir, fake.params(t, 0)["workspace_path"])
}

func TestTaskNewCommand_RejectsMissingWorkspace(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	withFakeServer(t, fake)

	// Execute
	_, err := runCommand(newTaskNewCommand(), "T", "--workspace", "/no/such/dir")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
	assert.Empty(t, fake.calls, "should fail before reaching the server")
}

func TestTaskListCommand_PrintsTable(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["task.list"] = []*rpc.TaskInfo{
		{Slug: "fix-login-bug", Title: "Fix Login Bug", Status: "active", Complexity: "junior", Tags: []string{"auth"}},
		{Slug: "deploy-fix", Title: "Deploy fix", Status: "active"},
	}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newTaskListCommand())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "fix-login-bug")
	assert.Contains(t, out, "[auth]")
	assert.Contains(t, out, "deploy-fix")
	assert.Equal(t, false, fake.params(t, 0)["include_archived"])
}

func TestTaskListCommand_AllIncludesArchived(t *testing.T) {
	fake := newFakeCaller()
	fake.results["task.list"] = []*rpc.TaskInfo{}
	withFakeServer(t, fake)

	out, err := runCommand(newTaskListCommand(), "--all")

	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
	assert.Equal(t, true, fake.params(t, 0)["include_archived"])
}

func TestTaskListCommand_ServerNotRunning(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.errs["task.list"] = fmt.Errorf("%w: dial unix: no such file", domain.ErrServerNotRunning)
	withFakeServer(t, fake)

	// Execute
	_, err := runCommand(newTaskListCommand())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server not running (start it with 'squad serve')")
}

func TestTaskShowCommand_PrintsDetails(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["task.get"] = &rpc.TaskDetailInfo{
		Task: &rpc.TaskInfo{
			Slug:      "fix-login-bug",
			Title:     "Fix Login Bug",
			Status:    "active",
			DependsOn: []string{"update-deps"},
			Created:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		Sessions: []*rpc.SessionInfo{
			{ID: "abc123", Lifecycle: "running", DisplayName: "opencode-abc123"},
		},
	}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newTaskShowCommand(), "fix-login-bug")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Task: Fix Login Bug")
	assert.Contains(t, out, "Slug: fix-login-bug")
	assert.Contains(t, out, "Depends on: update-deps")
	assert.Contains(t, out, "opencode-abc123")
}

func TestTaskShowCommand_NotFound(t *testing.T) {
	fake := newFakeCaller()
	fake.results["task.get"] = nil
	withFakeServer(t, fake)

	_, err := runCommand(newTaskShowCommand(), "ghost")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found: ghost")
}

func TestTaskArchiveCommand_ReportsUnblocked(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["task.archive"] = &rpc.ArchiveTaskInfo{
		Task:      &rpc.TaskInfo{Slug: "fix-login-bug"},
		Unblocked: []string{"deploy-fix"},
	}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newTaskArchiveCommand(), "fix-login-bug")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Archived: fix-login-bug")
	assert.Contains(t, out, "Unblocked: deploy-fix")
}

func TestTaskRmCommand_Deletes(t *testing.T) {
	fake := newFakeCaller()
	fake.results["task.delete"] = &rpc.TaskInfo{Slug: "fix-login-bug"}
	withFakeServer(t, fake)

	out, err := runCommand(newTaskRmCommand(), "fix-login-bug")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted: fix-login-bug")
}

func TestTaskDepCommand_AddsDependency(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["task.add_dependency"] = &rpc.TaskInfo{Slug: "deploy-fix", DependsOn: []string{"fix-login-bug"}}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newTaskDepCommand(), "deploy-fix", "fix-login-bug")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "deploy-fix now depends on fix-login-bug")
	params := fake.params(t, 0)
	assert.Equal(t, "deploy-fix", params["slug"])
	assert.Equal(t, "fix-login-bug", params["depends_on"])
}

func TestTaskReadyCommand_Empty(t *testing.T) {
	fake := newFakeCaller()
	fake.results["task.ready"] = []*rpc.TaskInfo{}
	withFakeServer(t, fake)

	out, err := runCommand(newTaskReadyCommand())

	require.NoError(t, err)
	assert.Contains(t, out, "No tasks ready.")
}

func TestTaskDepCommand_SurfacesCycleError(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.errs["task.add_dependency"] = &rpc.Error{
		Code:    rpc.CodeInternalError,
		Message: "dependency cycle: a -> b -> a",
	}
	withFakeServer(t, fake)

	// Execute
	_, err := runCommand(newTaskDepCommand(), "a", "b")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle")
}
