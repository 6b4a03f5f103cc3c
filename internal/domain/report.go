package domain

import "time"

// ReportStatus classifies the outcome of a session review.
type ReportStatus string

const (
	ReportSuccess ReportStatus = "success" // Changes present, tests clean
	ReportPartial ReportStatus = "partial" // No file changes detected
	ReportFailed  ReportStatus = "failed"  // Failing or erroring tests
)

// SessionReport summarizes the reviewed work of one session.
// Fields are ordered to minimize memory padding.
type SessionReport struct {
	Created       time.Time    `json:"created"`
	SessionID     string       `json:"-"` // Stored as map key (one report per session)
	TaskSlug      string       `json:"taskSlug"`
	Status        ReportStatus `json:"status"`
	Summary       string       `json:"summary"`
	OutputSnippet string       `json:"outputSnippet,omitempty"`
	FilesChanged  int          `json:"filesChanged"`
	Insertions    int          `json:"insertions"`
	Deletions     int          `json:"deletions"`
	TestsPassed   int          `json:"testsPassed"`
	TestsFailed   int          `json:"testsFailed"`
	TestErrors    int          `json:"testErrors"`
}

// AgentEventType labels coordinator-visible happenings on a session.
type AgentEventType string

const (
	EventNeedsHelp    AgentEventType = "needs_help"    // Escalation triggered
	EventStalled      AgentEventType = "stalled"       // Output unchanged past the stall window
	EventDeadline     AgentEventType = "deadline"      // Session hit its deadline and was stopped
	EventMerged       AgentEventType = "merged"        // Branch merged into the task workspace
	EventRolledBack   AgentEventType = "rolled_back"   // Merge reverted
	EventUnblocked    AgentEventType = "unblocked"     // Dependent task became ready
	EventReviewStored AgentEventType = "review_stored" // Review report persisted
)

// AgentEvent is an acknowledgeable notification about a session.
// Fields are ordered to minimize memory padding.
type AgentEvent struct {
	Created      time.Time      `json:"created"`
	ID           string         `json:"-"` // Stored as map key
	SessionID    string         `json:"sessionID,omitempty"`
	Type         AgentEventType `json:"type"`
	Message      string         `json:"message"`
	Acknowledged bool           `json:"acknowledged"`
}
