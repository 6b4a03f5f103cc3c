package rpc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/runoshun/squad/internal/app"
	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/runoshun/squad/internal/usecase/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContainer wires a container over mocks, enough for the method
// handlers under test.
func testContainer() (*app.Container, *testutil.MockClock) {
	clock := &testutil.MockClock{NowTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return &app.Container{
		Tasks:      testutil.NewMockTaskRepository(),
		Sessions:   testutil.NewMockSessionRepository(),
		Merges:     &testutil.MockMergeRecordRepository{},
		Memory:     &testutil.MockMemoryRepository{},
		Usage:      &testutil.MockUsageRepository{},
		Reports:    testutil.NewMockReportRepository(),
		Events:     &testutil.MockEventRepository{},
		Workspaces: testutil.NewMockWorkspaceRepository(),
		Clock:      clock,
		Locks:      shared.NewKeyedLocks(),
		Logger:     discardLogger(),
	}, clock
}

func call(t *testing.T, methods map[string]Handler, method, params string) (any, error) {
	t.Helper()
	handler, ok := methods[method]
	require.True(t, ok, "method %s not registered", method)
	var raw json.RawMessage
	if params != "" {
		raw = json.RawMessage(params)
	}
	return handler(context.Background(), raw)
}

func TestMethods_ServerPing(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "1.0.0", time.Now())

	result, err := call(t, methods, "server.ping", "")

	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestMethods_ServerStatus(t *testing.T) {
	// Setup
	c, clock := testContainer()
	started := clock.NowTime.Add(-90 * time.Second)
	tasks := c.Tasks.(*testutil.MockTaskRepository)
	tasks.Tasks["one"] = &domain.Task{Slug: "one", Status: domain.TaskActive}
	sessions := c.Sessions.(*testutil.MockSessionRepository)
	sessions.Sessions["s1"] = &domain.Session{ID: "s1", Lifecycle: domain.LifecycleRunning}
	sessions.Sessions["s2"] = &domain.Session{ID: "s2", Lifecycle: domain.LifecycleCompleted}
	methods := Methods(c, "1.2.3", started)

	// Execute
	result, err := call(t, methods, "server.status", "")

	// Assert
	require.NoError(t, err)
	status, ok := result.(*StatusInfo)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, int64(90), status.UptimeSeconds)
	assert.Equal(t, 1, status.Tasks)
	assert.Equal(t, 2, status.Sessions)
	assert.Equal(t, 1, status.RunningSessions)
}

func TestMethods_TaskCreateAndGet(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	result, err := call(t, methods, "task.create", `{"title":"Fix Login Bug","tags":["auth"]}`)
	require.NoError(t, err)

	info, ok := result.(*TaskInfo)
	require.True(t, ok)
	assert.Equal(t, "fix-login-bug", info.Slug)
	assert.Equal(t, "active", info.Status)
	assert.Equal(t, []string{"auth"}, info.Tags)

	detail, err := call(t, methods, "task.get", `{"slug":"fix-login-bug"}`)
	require.NoError(t, err)
	taskDetail, ok := detail.(*TaskDetailInfo)
	require.True(t, ok)
	assert.Equal(t, "fix-login-bug", taskDetail.Task.Slug)
	assert.Empty(t, taskDetail.Sessions)
}

func TestMethods_TaskGetAbsentReturnsNull(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	result, err := call(t, methods, "task.get", `{"slug":"ghost"}`)

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestMethods_TaskCreateRequiresTitle(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	_, err := call(t, methods, "task.create", `{"title":"  "}`)

	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "title")
}

func TestMethods_MalformedParams(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	_, err := call(t, methods, "task.get", `{"slug":7}`)

	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
}

func TestMethods_SessionListFiltersByTask(t *testing.T) {
	// Setup
	c, _ := testContainer()
	sessions := c.Sessions.(*testutil.MockSessionRepository)
	sessions.Sessions["a1"] = &domain.Session{ID: "a1", TaskSlug: "alpha"}
	sessions.Sessions["b1"] = &domain.Session{ID: "b1", TaskSlug: "beta"}
	methods := Methods(c, "test", time.Now())

	// Execute
	result, err := call(t, methods, "session.list", `{"task_slug":"alpha"}`)

	// Assert
	require.NoError(t, err)
	infos, ok := result.([]*SessionInfo)
	require.True(t, ok)
	require.Len(t, infos, 1)
	assert.Equal(t, "a1", infos[0].ID)
}

func TestMethods_SessionGetIncludesDisplayName(t *testing.T) {
	c, _ := testContainer()
	sessions := c.Sessions.(*testutil.MockSessionRepository)
	id := "0123456789abcdef0123456789abcdef"
	sessions.Sessions[id] = &domain.Session{
		ID:           id,
		TaskSlug:     "alpha",
		AgentBackend: domain.BackendOpenCode,
		Lifecycle:    domain.LifecycleRunning,
	}
	methods := Methods(c, "test", time.Now())

	result, err := call(t, methods, "session.get", `{"session_id":"`+id+`"}`)

	require.NoError(t, err)
	info, ok := result.(*SessionInfo)
	require.True(t, ok)
	assert.Equal(t, "opencode-01234567", info.DisplayName)
	assert.Equal(t, "running", info.Lifecycle)
}

func TestMethods_MemoryStoreAndSearch(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	result, err := call(t, methods, "memory.store",
		`{"key":"api-style","content":"All endpoints return envelopes.","task_slug":"alpha"}`)
	require.NoError(t, err)
	stored, ok := result.(*MemoryInfo)
	require.True(t, ok)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "task", stored.Scope)

	found, err := call(t, methods, "memory.search", `{"query":"envelopes"}`)
	require.NoError(t, err)
	entries, ok := found.([]*MemoryInfo)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "api-style", entries[0].Key)
}

func TestMethods_UsageAggregateRecentUsesCutoff(t *testing.T) {
	// Setup
	c, clock := testContainer()
	usage := c.Usage.(*testutil.MockUsageRepository)
	usage.Events = []*domain.UsageEvent{
		{Provider: "anthropic", Model: "m", PromptTokens: 10, CompletionTokens: 5, Created: clock.NowTime.Add(-1 * time.Hour)},
		{Provider: "anthropic", Model: "m", PromptTokens: 100, CompletionTokens: 50, Created: clock.NowTime.Add(-48 * time.Hour)},
	}
	methods := Methods(c, "test", time.Now())

	// Execute
	result, err := call(t, methods, "usage.aggregate_recent", `{"hours":24}`)

	// Assert
	require.NoError(t, err)
	totals, ok := result.([]*UsageTotalsInfo)
	require.True(t, ok)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(1), totals[0].Calls)
	assert.Equal(t, int64(10), totals[0].PromptTokens)
}

func TestMethods_WorkspaceInsertDefaultsNameFromPath(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	result, err := call(t, methods, "workspace.insert", `{"path":"/repos/web-app"}`)
	require.NoError(t, err)

	info, ok := result.(*WorkspaceInfo)
	require.True(t, ok)
	assert.Equal(t, "web-app", info.Name)

	found, err := call(t, methods, "workspace.find_by_path", `{"path":"/repos/web-app"}`)
	require.NoError(t, err)
	foundInfo, ok := found.(*WorkspaceInfo)
	require.True(t, ok)
	assert.Equal(t, "web-app", foundInfo.Name)
}

func TestMethods_EventAcknowledge(t *testing.T) {
	// Setup
	c, clock := testContainer()
	events := c.Events.(*testutil.MockEventRepository)
	require.NoError(t, events.Insert(&domain.AgentEvent{
		Created:   clock.NowTime,
		SessionID: "s1",
		Type:      domain.EventNeedsHelp,
		Message:   "stuck on migration",
	}))
	eventID := events.Events[0].ID
	methods := Methods(c, "test", time.Now())

	pending, err := call(t, methods, "event.list_unacknowledged", "")
	require.NoError(t, err)
	require.Len(t, pending.([]*EventInfo), 1)

	// Execute
	result, err := call(t, methods, "event.acknowledge", `{"id":"`+eventID+`"}`)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, true, result)
	pending, err = call(t, methods, "event.list_unacknowledged", "")
	require.NoError(t, err)
	assert.Empty(t, pending.([]*EventInfo))
}

func TestMethods_CoordinatorMessageRequiresText(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	_, err := call(t, methods, "coordinator.message", `{"message":""}`)

	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
}

func TestMethods_AllNamespacesRegistered(t *testing.T) {
	c, _ := testContainer()
	methods := Methods(c, "test", time.Now())

	for _, name := range []string{
		"server.ping", "server.status",
		"task.create", "task.get", "task.list", "task.archive", "task.delete",
		"task.add_dependency", "task.ready",
		"session.start_coding", "session.get", "session.list", "session.stop",
		"session.pause", "session.resume", "session.archive", "session.get_output",
		"session.send_to", "session.check_liveness", "session.get_diff",
		"session.run_in_worktree", "session.conflicts", "session.merge",
		"session.rollback", "session.review",
		"coordinator.message", "coordinator.ask",
		"memory.store", "memory.list", "memory.search", "memory.delete",
		"usage.list_recent", "usage.aggregate_recent", "usage.aggregate_totals",
		"workspace.insert", "workspace.find_by_path", "workspace.list_all", "workspace.delete",
		"report.get", "report.list_by_task",
		"event.list_unacknowledged", "event.acknowledge", "event.list_by_session",
		"playbook.list", "playbook.get",
	} {
		assert.Contains(t, methods, name)
	}
}
