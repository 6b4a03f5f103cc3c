package domain

import "time"

// MemoryScope controls which sessions see a memory entry.
type MemoryScope string

const (
	ScopeTask    MemoryScope = "task"
	ScopeSession MemoryScope = "session"
	ScopeGlobal  MemoryScope = "global"
)

// MemoryEntry is a piece of shared context stored for future sessions.
// Task-scoped entries are prepended to coding-session prompts.
// Fields are ordered to minimize memory padding.
type MemoryEntry struct {
	Created   time.Time   `json:"created"`
	ID        string      `json:"-"` // Stored as map key
	Key       string      `json:"key"`
	Content   string      `json:"content"`
	Scope     MemoryScope `json:"scope"`
	TaskSlug  string      `json:"taskSlug,omitempty"`
	SessionID string      `json:"sessionID,omitempty"`
}

// Validate checks the scope/ownership invariants.
func (m *MemoryEntry) Validate() error {
	if m.Key == "" || m.Content == "" {
		return ErrInvalidArgument
	}
	switch m.Scope {
	case ScopeTask:
		if m.TaskSlug == "" {
			return ErrInvalidArgument
		}
	case ScopeSession:
		if m.SessionID == "" {
			return ErrInvalidArgument
		}
	case ScopeGlobal:
	default:
		return ErrInvalidArgument
	}
	return nil
}
