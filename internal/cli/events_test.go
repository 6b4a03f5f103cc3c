package cli

import (
	"testing"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsCommand_ListsUnacknowledged(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["event.list_unacknowledged"] = []*rpc.EventInfo{
		{ID: "evt-1", Type: "needs_help", SessionID: "abc123", Message: "agent asked for guidance"},
	}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newEventsCommand())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "evt-1")
	assert.Contains(t, out, "needs_help")
	assert.Contains(t, out, "agent asked for guidance")
}

func TestEventsCommand_Empty(t *testing.T) {
	fake := newFakeCaller()
	fake.results["event.list_unacknowledged"] = []*rpc.EventInfo{}
	withFakeServer(t, fake)

	out, err := runCommand(newEventsCommand())

	require.NoError(t, err)
	assert.Contains(t, out, "No events.")
}

func TestEventsAckCommand_Acknowledges(t *testing.T) {
	fake := newFakeCaller()
	fake.results["event.acknowledge"] = true
	withFakeServer(t, fake)

	out, err := runCommand(newEventsAckCommand(), "evt-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Acknowledged: evt-1")
	assert.Equal(t, "evt-1", fake.params(t, 0)["id"])
}

func TestEventsSessionCommand_ListsBySession(t *testing.T) {
	fake := newFakeCaller()
	fake.results["event.list_by_session"] = []*rpc.EventInfo{
		{ID: "evt-2", Type: "stalled", SessionID: "abc123", Message: "no output for 12m"},
	}
	withFakeServer(t, fake)

	out, err := runCommand(newEventsSessionCommand(), "abc123")

	require.NoError(t, err)
	assert.Contains(t, out, "stalled")
	assert.Equal(t, "abc123", fake.params(t, 0)["session_id"])
}
