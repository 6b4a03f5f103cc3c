package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SessionKind classifies what a session's subprocess does.
type SessionKind string

const (
	KindCodingAgent   SessionKind = "coding_agent"
	KindResearchAgent SessionKind = "research_agent"
	KindShell         SessionKind = "shell"
)

// Attachment records how a session is bound to a live process.
// A zero Attachment means the session was never spawned.
// Fields are ordered to minimize memory padding.
type Attachment struct {
	TmuxSession string `json:"tmuxSession,omitempty"` // Multiplexer session name
	TmuxWindow  string `json:"tmuxWindow,omitempty"`  // Window name within the session
	PaneID      string `json:"paneID,omitempty"`      // Pane identifier (%N)
	PID         int    `json:"pid,omitempty"`         // Pane leader pid (0 = unknown)
}

// HasPane returns true if the session is attached to a multiplexer pane.
func (a Attachment) HasPane() bool {
	return a.TmuxSession != "" && a.PaneID != ""
}

// Session is a tracked unit of agent execution tied to a task.
// Fields are ordered to minimize memory padding.
type Session struct {
	Created      time.Time   `json:"created"`
	Updated      time.Time   `json:"updated"`
	ID           string      `json:"-"` // 32-hex identifier (stored as map key)
	TaskSlug     string      `json:"taskSlug"`
	Kind         SessionKind `json:"kind"`
	Lifecycle    Lifecycle   `json:"lifecycle"`
	AgentBackend Backend     `json:"agentBackend"`
	Model        string      `json:"model,omitempty"`
	Prompt       string      `json:"prompt,omitempty"`
	WorktreePath string      `json:"worktreePath,omitempty"` // Empty when running in the main workspace
	BranchName   string      `json:"branchName,omitempty"`   // session/<backend>-<short-id>
	Attachment   Attachment  `json:"attachment"`
}

// NewSessionID returns a fresh 32-character hex session identifier.
func NewSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a time-derived id rather than panicking in library code.
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000")))[:32]
	}
	return hex.EncodeToString(b[:])
}

// ShortID returns the first eight characters of the session id, used for
// branch, worktree, and window naming.
func (s *Session) ShortID() string {
	return ShortID(s.ID)
}

// DisplayName returns "<backend>-<short-id>", the human-facing session label.
func (s *Session) DisplayName() string {
	return string(s.AgentBackend) + "-" + s.ShortID()
}

// ShortID truncates a session id to its first eight characters.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
