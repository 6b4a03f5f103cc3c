package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient scripts RPC responses per method and records calls.
type fakeClient struct {
	results map[string]any
	errs    map[string]error
	calls   []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		results: make(map[string]any),
		errs:    make(map[string]error),
	}
}

func (f *fakeClient) Call(_ context.Context, method string, _, out any) error {
	f.calls = append(f.calls, method)
	if err, ok := f.errs[method]; ok {
		return err
	}
	result, ok := f.results[method]
	if !ok || out == nil || result == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// scriptSnapshot fills the client with one coherent server snapshot.
func scriptSnapshot(f *fakeClient) {
	f.results["server.status"] = &rpc.StatusInfo{Version: "1.0", UptimeSeconds: 90, Tasks: 1, Sessions: 1, RunningSessions: 1}
	f.results["task.list"] = []*rpc.TaskInfo{
		{Slug: "fix-login-bug", Title: "Fix login bug", Status: "active", Tags: []string{"auth"}},
	}
	f.results["session.list"] = []*rpc.SessionInfo{
		{ID: "abc12345-6789", TaskSlug: "fix-login-bug", Kind: "coding", Lifecycle: "running", AgentBackend: "opencode"},
	}
	f.results["event.list_unacknowledged"] = []*rpc.EventInfo{
		{ID: "ev1", SessionID: "abc12345-6789", Type: "needs_help", Message: "stuck on migration"},
	}
}

func TestNewDashboard_Defaults(t *testing.T) {
	// Setup
	client := newFakeClient()

	// Execute
	m := NewDashboard(client)

	// Assert
	assert.Equal(t, TabTasks, m.tab)
	assert.False(t, m.showHelp)
	assert.NotNil(t, m.Init())
}

func TestFetchSnapshot_LoadsAllLists(t *testing.T) {
	// Setup
	client := newFakeClient()
	scriptSnapshot(client)

	// Execute
	msg := fetchSnapshot(client)()

	// Assert
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok, "expected snapshotMsg, got %T", msg)
	assert.Equal(t, "1.0", snap.status.Version)
	assert.Len(t, snap.tasks, 1)
	assert.Len(t, snap.sessions, 1)
	assert.Len(t, snap.events, 1)
	assert.Equal(t, []string{"server.status", "task.list", "session.list", "event.list_unacknowledged"}, client.calls)
}

func TestFetchSnapshot_ErrorShortCircuits(t *testing.T) {
	// Setup
	client := newFakeClient()
	client.errs["server.status"] = errors.New("dial unix: no such file")

	// Execute
	msg := fetchSnapshot(client)()

	// Assert
	em, ok := msg.(errMsg)
	require.True(t, ok, "expected errMsg, got %T", msg)
	assert.Contains(t, em.err.Error(), "dial unix")
	assert.Equal(t, []string{"server.status"}, client.calls)
}

func TestAcknowledgeEvent_ReportsAck(t *testing.T) {
	// Setup
	client := newFakeClient()
	client.results["event.acknowledge"] = true

	// Execute
	msg := acknowledgeEvent(client, "ev1")()

	// Assert
	acked, ok := msg.(ackedMsg)
	require.True(t, ok, "expected ackedMsg, got %T", msg)
	assert.Equal(t, "ev1", acked.id)
}

func TestTabString(t *testing.T) {
	assert.Equal(t, "Tasks", TabTasks.String())
	assert.Equal(t, "Sessions", TabSessions.String())
	assert.Equal(t, "Events", TabEvents.String())
}
