package domain

import "errors"

// Domain errors. Callers branch on these with errors.Is; the RPC
// boundary reduces them to their message text.
var (
	ErrDuplicateSlug     = errors.New("task with this slug already exists")
	ErrCycleDetected     = errors.New("dependency cycle detected")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrNotGitRepository  = errors.New("not a git repository")
	ErrNoSession         = errors.New("no such multiplexer session")
	ErrNoWorktree        = errors.New("session has no worktree")
	ErrMergeConflict     = errors.New("merge conflict exists")
	ErrAlreadyMerged     = errors.New("session already merged")
	ErrAlreadyReverted   = errors.New("merge has already been reverted")
	ErrNoMergeRecord     = errors.New("no merge record for session")
	ErrNotInitialized    = errors.New("state store not initialized")
	ErrServerNotRunning  = errors.New("server not running")
	ErrUnknownBackend    = errors.New("unknown agent backend")
	ErrInvalidStatus     = errors.New("invalid status")
)
