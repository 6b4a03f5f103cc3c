package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/squad/internal/rpc"
)

// refreshInterval is how often the dashboard polls the server.
const refreshInterval = 2 * time.Second

// fetchTimeout bounds one snapshot round trip.
const fetchTimeout = 5 * time.Second

// snapshotMsg carries one full server snapshot.
type snapshotMsg struct {
	status   *rpc.StatusInfo
	tasks    []*rpc.TaskInfo
	sessions []*rpc.SessionInfo
	events   []*rpc.EventInfo
}

// errMsg reports a failed server call.
type errMsg struct {
	err error
}

// tickMsg fires on the refresh timer.
type tickMsg time.Time

// ackedMsg reports a successful event acknowledgement.
type ackedMsg struct {
	id string
}

// fetchSnapshot pulls status, tasks, sessions, and unacknowledged
// events in one command.
func fetchSnapshot(client Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var snap snapshotMsg
		if err := client.Call(ctx, "server.status", nil, &snap.status); err != nil {
			return errMsg{err: err}
		}
		if err := client.Call(ctx, "task.list", nil, &snap.tasks); err != nil {
			return errMsg{err: err}
		}
		if err := client.Call(ctx, "session.list", nil, &snap.sessions); err != nil {
			return errMsg{err: err}
		}
		if err := client.Call(ctx, "event.list_unacknowledged", nil, &snap.events); err != nil {
			return errMsg{err: err}
		}
		return snap
	}
}

// acknowledgeEvent marks one event as seen on the server.
func acknowledgeEvent(client Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var ok bool
		if err := client.Call(ctx, "event.acknowledge", map[string]any{"id": id}, &ok); err != nil {
			return errMsg{err: err}
		}
		return ackedMsg{id: id}
	}
}

// scheduleTick arms the refresh timer.
func scheduleTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
