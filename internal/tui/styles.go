package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/squad/internal/domain"
)

// Colors defines the color palette for the dashboard.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Lifecycle colors
	Pending   lipgloss.Color
	Running   lipgloss.Color
	Paused    lipgloss.Color
	Completed lipgloss.Color
	Failed    lipgloss.Color
	Archived  lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)

	Pending:   lipgloss.Color("#74B9FF"), // Light blue
	Running:   lipgloss.Color("#00B894"), // Green
	Paused:    lipgloss.Color("#FDCB6E"), // Yellow
	Completed: lipgloss.Color("#A29BFE"), // Lavender
	Failed:    lipgloss.Color("#D63031"), // Red
	Archived:  lipgloss.Color("#636E72"), // Gray
}

// Styles contains all the lipgloss styles for the dashboard.
type Styles struct {
	App lipgloss.Style

	Header     lipgloss.Style
	HeaderText lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Row         lipgloss.Style
	RowSelected lipgloss.Style
	Cursor      lipgloss.Style

	Muted     lipgloss.Style
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
	ErrorMsg  lipgloss.Style

	// Lifecycle badges
	LifecyclePending   lipgloss.Style
	LifecycleRunning   lipgloss.Style
	LifecyclePaused    lipgloss.Style
	LifecycleCompleted lipgloss.Style
	LifecycleFailed    lipgloss.Style
	LifecycleArchived  lipgloss.Style
}

// DefaultStyles returns the default styles for the dashboard.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		HeaderText: lipgloss.NewStyle().
			Bold(true),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleSelected).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Padding(0, 1),

		Row: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		RowSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleSelected),

		Cursor: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		LifecyclePending: lipgloss.NewStyle().
			Foreground(Colors.Pending),

		LifecycleRunning: lipgloss.NewStyle().
			Foreground(Colors.Running),

		LifecyclePaused: lipgloss.NewStyle().
			Foreground(Colors.Paused),

		LifecycleCompleted: lipgloss.NewStyle().
			Foreground(Colors.Completed),

		LifecycleFailed: lipgloss.NewStyle().
			Foreground(Colors.Failed),

		LifecycleArchived: lipgloss.NewStyle().
			Foreground(Colors.Archived),
	}
}

// LifecycleStyle returns the badge style for a session lifecycle.
func (s Styles) LifecycleStyle(lifecycle string) lipgloss.Style {
	switch domain.Lifecycle(lifecycle) {
	case domain.LifecyclePending:
		return s.LifecyclePending
	case domain.LifecycleRunning:
		return s.LifecycleRunning
	case domain.LifecyclePaused:
		return s.LifecyclePaused
	case domain.LifecycleCompleted:
		return s.LifecycleCompleted
	case domain.LifecycleFailed:
		return s.LifecycleFailed
	case domain.LifecycleArchived:
		return s.LifecycleArchived
	default:
		return s.LifecyclePending
	}
}

// LifecycleIcon returns an icon for a session lifecycle.
func LifecycleIcon(lifecycle string) string {
	switch domain.Lifecycle(lifecycle) {
	case domain.LifecyclePending:
		return "○"
	case domain.LifecycleRunning:
		return "●"
	case domain.LifecyclePaused:
		return "◌"
	case domain.LifecycleCompleted:
		return "✓"
	case domain.LifecycleFailed:
		return "✗"
	case domain.LifecycleArchived:
		return "−"
	default:
		return "?"
	}
}

// TaskStatusIcon returns an icon for a task status.
func TaskStatusIcon(status string) string {
	switch domain.TaskStatus(status) {
	case domain.TaskActive:
		return "●"
	case domain.TaskArchived:
		return "✓"
	case domain.TaskDeleted:
		return "−"
	default:
		return "?"
	}
}
