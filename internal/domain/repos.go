package domain

import "time"

// Repository lookups return (nil, nil) when the entity is absent;
// not-found is data, not an error.

// TaskRepository manages task persistence.
type TaskRepository interface {
	// FindBySlug retrieves a task. Returns nil if not found.
	FindBySlug(slug string) (*Task, error)

	// List retrieves tasks, excluding deleted ones. Archived tasks
	// are included only when includeArchived is set.
	List(includeArchived bool) ([]*Task, error)

	// Insert creates a task. Returns ErrDuplicateSlug if the slug is
	// taken (including by archived or deleted tasks).
	Insert(task *Task) error

	// Update overwrites an existing task.
	Update(task *Task) error

	// UpdateStatus atomically sets the status and returns the updated
	// task, or nil if the slug is unknown.
	UpdateStatus(slug string, status TaskStatus) (*Task, error)

	// FindDependents returns tasks listing slug in their depends_on.
	FindDependents(slug string) ([]*Task, error)

	// FindReady returns active tasks whose dependencies are all
	// archived.
	FindReady() ([]*Task, error)
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// FindByID retrieves a session. Returns nil if not found.
	FindByID(id string) (*Session, error)

	// List retrieves all sessions, newest first.
	List() ([]*Session, error)

	// ListByTask retrieves the sessions owned by a task.
	ListByTask(taskSlug string) ([]*Session, error)

	// Insert creates a session record.
	Insert(session *Session) error

	// Update overwrites an existing session.
	Update(session *Session) error

	// UpdateLifecycle atomically sets the lifecycle and returns the
	// updated session, or nil if the id is unknown.
	UpdateLifecycle(id string, lifecycle Lifecycle) (*Session, error)
}

// MergeRecordRepository manages merge bookkeeping.
type MergeRecordRepository interface {
	// Insert stores the record of a successful merge.
	Insert(record *MergeRecord) error

	// FindBySession returns the most recent record for a session, or
	// nil when the session was never merged.
	FindBySession(sessionID string) (*MergeRecord, error)

	// MarkReverted flags the session's record as reverted and stores
	// the revert commit sha.
	MarkReverted(sessionID, revertSHA string) error
}

// MemoryRepository manages shared memory entries.
type MemoryRepository interface {
	// Insert stores an entry and assigns its id.
	Insert(entry *MemoryEntry) error

	// List returns entries, newest first, optionally filtered by
	// task slug.
	List(taskSlug string) ([]*MemoryEntry, error)

	// ListForTask returns the newest limit task-scoped entries.
	ListForTask(taskSlug string, limit int) ([]*MemoryEntry, error)

	// Search returns entries whose key or content contains the query,
	// case-insensitively.
	Search(query string) ([]*MemoryEntry, error)

	// Delete removes an entry by id.
	Delete(id string) error
}

// UsageRepository records LLM call usage.
type UsageRepository interface {
	// Insert stores an event and assigns its id.
	Insert(event *UsageEvent) error

	// ListRecent returns the newest limit events.
	ListRecent(limit int) ([]*UsageEvent, error)

	// AggregateSince sums events created at or after cutoff,
	// grouped by provider and model.
	AggregateSince(cutoff time.Time) ([]UsageTotals, error)

	// AggregateTotals sums all events grouped by provider and model.
	AggregateTotals() ([]UsageTotals, error)
}

// ReportRepository manages session review reports.
type ReportRepository interface {
	// Upsert stores the report for a session, replacing any previous
	// one.
	Upsert(report *SessionReport) error

	// FindBySession retrieves a session's report. Returns nil if the
	// session was never reviewed.
	FindBySession(sessionID string) (*SessionReport, error)

	// ListByTask retrieves reports for every session of a task.
	ListByTask(taskSlug string) ([]*SessionReport, error)
}

// EventRepository manages agent events.
type EventRepository interface {
	// Insert stores an event and assigns its id.
	Insert(event *AgentEvent) error

	// ListUnacknowledged returns pending events, oldest first.
	ListUnacknowledged() ([]*AgentEvent, error)

	// ListBySession returns a session's events, oldest first.
	ListBySession(sessionID string) ([]*AgentEvent, error)

	// Acknowledge marks an event as seen.
	Acknowledge(id string) error
}

// WorkspaceRepository manages registered workspaces.
type WorkspaceRepository interface {
	// Insert registers a workspace.
	Insert(ws *Workspace) error

	// FindByPath retrieves a workspace by path. Returns nil if not
	// registered.
	FindByPath(path string) (*Workspace, error)

	// ListAll returns all registered workspaces.
	ListAll() ([]*Workspace, error)

	// Delete removes a workspace by name.
	Delete(name string) error
}

// ConversationRepository persists coordinator conversations.
type ConversationRepository interface {
	// Load retrieves a conversation by key. Returns nil if the
	// counterpart has no history yet.
	Load(key string) (*Conversation, error)

	// Save persists a conversation after a turn.
	Save(conversation *Conversation) error

	// ListKeys returns every stored conversation key.
	ListKeys() ([]string, error)
}
