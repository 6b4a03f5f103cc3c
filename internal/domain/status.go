package domain

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskActive   TaskStatus = "active"   // Available for sessions
	TaskArchived TaskStatus = "archived" // Finished; no longer blocks dependents
	TaskDeleted  TaskStatus = "deleted"  // Soft-deleted, hidden from listings
)

// IsValid returns true if the status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskActive, TaskArchived, TaskDeleted:
		return true
	default:
		return false
	}
}

// Lifecycle represents the state of a session's subprocess.
type Lifecycle string

const (
	LifecyclePending   Lifecycle = "pending"   // Record inserted, subprocess not yet spawned
	LifecycleRunning   Lifecycle = "running"   // Subprocess alive
	LifecyclePaused    Lifecycle = "paused"    // Subprocess suspended with SIGSTOP
	LifecycleCompleted Lifecycle = "completed" // Stopped normally
	LifecycleFailed    Lifecycle = "failed"    // Spawn or execution failure
	LifecycleArchived  Lifecycle = "archived"  // Worktree released, session retired
)

// lifecycleTransitions defines the allowed lifecycle transitions.
// Flow: pending → running ⇄ paused → completed/failed → archived.
// Archived is reachable from every non-terminal state (force-archive).
var lifecycleTransitions = map[Lifecycle][]Lifecycle{
	LifecyclePending:   {LifecycleRunning, LifecycleCompleted, LifecycleFailed, LifecycleArchived},
	LifecycleRunning:   {LifecyclePaused, LifecycleCompleted, LifecycleFailed, LifecycleArchived},
	LifecyclePaused:    {LifecycleRunning, LifecycleCompleted, LifecycleFailed, LifecycleArchived},
	LifecycleCompleted: {LifecycleArchived},
	LifecycleFailed:    {LifecycleArchived},
	LifecycleArchived:  {},
}

// CanTransitionTo returns true if the lifecycle can move to the target state.
func (l Lifecycle) CanTransitionTo(target Lifecycle) bool {
	for _, allowed := range lifecycleTransitions[l] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states that end a session's subprocess life.
func (l Lifecycle) IsTerminal() bool {
	return l == LifecycleCompleted || l == LifecycleFailed || l == LifecycleArchived
}

// IsLive returns true while the session may own a subprocess.
func (l Lifecycle) IsLive() bool {
	return l == LifecycleRunning || l == LifecyclePaused
}

// AllLifecycles returns every valid lifecycle value.
func AllLifecycles() []Lifecycle {
	return []Lifecycle{
		LifecyclePending,
		LifecycleRunning,
		LifecyclePaused,
		LifecycleCompleted,
		LifecycleFailed,
		LifecycleArchived,
	}
}
