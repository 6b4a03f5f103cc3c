// Package tui implements the live dashboard. It is a read-mostly view
// over the server: every few seconds it pulls tasks, sessions, and
// unacknowledged events through the control socket and renders them in
// three switchable tabs.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/squad/internal/rpc"
)

// Client is the slice of the control-socket client the dashboard
// needs.
type Client interface {
	Call(ctx context.Context, method string, params, out any) error
}

// Tab identifies one dashboard pane.
type Tab int

const (
	TabTasks Tab = iota
	TabSessions
	TabEvents
)

// tabCount is the number of panes Tab cycles through.
const tabCount = 3

// String returns the tab label.
func (t Tab) String() string {
	switch t {
	case TabTasks:
		return "Tasks"
	case TabSessions:
		return "Sessions"
	case TabEvents:
		return "Events"
	default:
		return "?"
	}
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	// Dependencies
	client Client
	err    error

	// Snapshot state
	status   *rpc.StatusInfo
	tasks    []*rpc.TaskInfo
	sessions []*rpc.SessionInfo
	events   []*rpc.EventInfo

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model

	// Numeric state
	cursors  [tabCount]int
	tab      Tab
	width    int
	height   int
	showHelp bool
	loaded   bool
}

// NewDashboard creates the dashboard model over the given client.
func NewDashboard(client Client) *Model {
	return &Model{
		client: client,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		help:   help.New(),
	}
}

// Init loads the first snapshot and starts the refresh timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		fetchSnapshot(m.client),
		scheduleTick(),
	)
}

// rowCount returns the number of rows in the active tab.
func (m *Model) rowCount() int {
	switch m.tab {
	case TabTasks:
		return len(m.tasks)
	case TabSessions:
		return len(m.sessions)
	case TabEvents:
		return len(m.events)
	default:
		return 0
	}
}

// cursor returns the selection index of the active tab.
func (m *Model) cursor() int {
	return m.cursors[m.tab]
}

// clampCursors keeps every selection inside its tab after a refresh
// shrinks a list.
func (m *Model) clampCursors() {
	lens := [tabCount]int{len(m.tasks), len(m.sessions), len(m.events)}
	for i := range m.cursors {
		if m.cursors[i] >= lens[i] {
			m.cursors[i] = lens[i] - 1
		}
		if m.cursors[i] < 0 {
			m.cursors[i] = 0
		}
	}
}

// selectedEvent returns the event under the cursor, or nil when the
// events tab is empty.
func (m *Model) selectedEvent() *rpc.EventInfo {
	if m.tab != TabEvents || len(m.events) == 0 {
		return nil
	}
	return m.events[m.cursors[TabEvents]]
}

// selectedSession returns the session under the cursor, or nil when
// the sessions tab is empty.
func (m *Model) selectedSession() *rpc.SessionInfo {
	if m.tab != TabSessions || len(m.sessions) == 0 {
		return nil
	}
	return m.sessions[m.cursors[TabSessions]]
}
