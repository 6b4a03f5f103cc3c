package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all dashboard messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.status = msg.status
		m.tasks = msg.tasks
		m.sessions = msg.sessions
		m.events = msg.events
		m.err = nil
		m.loaded = true
		m.clampCursors()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loaded = true
		return m, nil

	case ackedMsg:
		// The acknowledged event disappears from the next snapshot;
		// refresh immediately so the list reacts.
		return m, fetchSnapshot(m.client)

	case tickMsg:
		return m, tea.Batch(fetchSnapshot(m.client), scheduleTick())
	}

	return m, nil
}

// handleKey routes one keypress.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Escape):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.tab] > 0 {
			m.cursors[m.tab]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.tab] < m.rowCount()-1 {
			m.cursors[m.tab]++
		}

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount

	case key.Matches(msg, m.keys.Refresh):
		return m, fetchSnapshot(m.client)

	case key.Matches(msg, m.keys.Ack):
		if event := m.selectedEvent(); event != nil {
			return m, acknowledgeEvent(m.client, event.ID)
		}
	}

	return m, nil
}
