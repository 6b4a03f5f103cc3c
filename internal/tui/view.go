package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/squad/internal/rpc"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.styles.App.Render(m.viewHelp())
	}

	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	switch m.tab {
	case TabTasks:
		b.WriteString(m.viewTasks())
	case TabSessions:
		b.WriteString(m.viewSessions())
	case TabEvents:
		b.WriteString(m.viewEvents())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return m.styles.App.Render(b.String())
}

// viewHeader renders the title line with the server counters.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("squad")

	var right string
	if m.status != nil {
		right = m.styles.Muted.Render(fmt.Sprintf(
			"v%s · up %s · %d tasks · %d sessions (%d running)",
			m.status.Version,
			formatUptime(m.status.UptimeSeconds),
			m.status.Tasks,
			m.status.Sessions,
			m.status.RunningSessions,
		))
	} else if m.loaded {
		right = m.styles.ErrorMsg.Render("server unreachable")
	} else {
		right = m.styles.Muted.Render("connecting...")
	}

	headerWidth := m.width - 6
	if headerWidth < 40 {
		headerWidth = 40
	}
	spacing := headerWidth - lipgloss.Width(title) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + right)
}

// viewTabs renders the tab bar.
func (m *Model) viewTabs() string {
	labels := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		label := t.String()
		switch t {
		case TabSessions:
			label = fmt.Sprintf("%s (%d)", label, len(m.sessions))
		case TabEvents:
			label = fmt.Sprintf("%s (%d)", label, len(m.events))
		case TabTasks:
			label = fmt.Sprintf("%s (%d)", label, len(m.tasks))
		}
		if t == m.tab {
			labels = append(labels, m.styles.TabActive.Render(label))
		} else {
			labels = append(labels, m.styles.TabInactive.Render(label))
		}
	}
	return strings.Join(labels, m.styles.Muted.Render("│"))
}

// viewTasks renders the task pane.
func (m *Model) viewTasks() string {
	if len(m.tasks) == 0 {
		return m.emptyState("No tasks", "squad task new \"...\" creates one")
	}

	var b strings.Builder
	for i, task := range m.tasks {
		b.WriteString(m.renderRow(i == m.cursors[TabTasks], m.renderTask(task)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTask renders one task row.
func (m *Model) renderTask(task *rpc.TaskInfo) string {
	icon := TaskStatusIcon(task.Status)
	slug := fmt.Sprintf("%-24s", truncate(task.Slug, 24))
	title := truncate(task.Title, 40)
	tags := ""
	if len(task.Tags) > 0 {
		tags = m.styles.Muted.Render("  " + strings.Join(task.Tags, ","))
	}
	return fmt.Sprintf("%s %s %s%s", icon, slug, title, tags)
}

// viewSessions renders the session pane.
func (m *Model) viewSessions() string {
	if len(m.sessions) == 0 {
		return m.emptyState("No sessions", "squad session start <task> spawns one")
	}

	var b strings.Builder
	for i, s := range m.sessions {
		b.WriteString(m.renderRow(i == m.cursors[TabSessions], m.renderSession(s)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderSession renders one session row.
func (m *Model) renderSession(s *rpc.SessionInfo) string {
	badge := m.styles.LifecycleStyle(s.Lifecycle).Render(
		fmt.Sprintf("%s %-9s", LifecycleIcon(s.Lifecycle), s.Lifecycle))
	id := shortID(s.ID)
	task := fmt.Sprintf("%-20s", truncate(s.TaskSlug, 20))
	backend := m.styles.Muted.Render(s.AgentBackend)
	return fmt.Sprintf("%s %s  %s %s", badge, id, task, backend)
}

// viewEvents renders the event pane.
func (m *Model) viewEvents() string {
	if len(m.events) == 0 {
		return m.emptyState("No unacknowledged events", "agents are quiet")
	}

	now := time.Now()
	var b strings.Builder
	for i, e := range m.events {
		b.WriteString(m.renderRow(i == m.cursors[TabEvents], m.renderEvent(e, now)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderEvent renders one event row.
func (m *Model) renderEvent(e *rpc.EventInfo, now time.Time) string {
	eventType := m.styles.LifecycleFailed.Render(fmt.Sprintf("%-12s", e.Type))
	age := m.styles.Muted.Render(fmt.Sprintf("%4s", formatAge(now, e.Created)))
	session := shortID(e.SessionID)
	return fmt.Sprintf("%s %s  %s  %s", eventType, age, session, truncate(e.Message, 60))
}

// renderRow applies selection styling and the cursor marker.
func (m *Model) renderRow(selected bool, row string) string {
	if selected {
		return m.styles.Cursor.Render("> ") + m.styles.RowSelected.Render(row)
	}
	return "  " + m.styles.Row.Render(row)
}

// emptyState renders a friendly empty pane.
func (m *Model) emptyState(title, hint string) string {
	return m.styles.Muted.Render(fmt.Sprintf("\n  %s\n  %s\n", title, hint))
}

// viewFooter renders the short key help.
func (m *Model) viewFooter() string {
	return m.help.View(m.keys)
}

// viewHelp renders the expanded key help.
func (m *Model) viewHelp() string {
	title := m.styles.HeaderText.Render("KEYBOARD SHORTCUTS")
	m.help.ShowAll = true
	content := m.help.View(m.keys)
	m.help.ShowAll = false

	box := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Colors.Primary)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

// shortID renders the first 8 characters of an id, or a dash when
// empty.
func shortID(id string) string {
	if id == "" {
		return fmt.Sprintf("%-8s", "-")
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%-8s", id)
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// formatAge renders the distance between now and t compactly.
func formatAge(now, t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// formatUptime renders seconds as a compact duration.
func formatUptime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
