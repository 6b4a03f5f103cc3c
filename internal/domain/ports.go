package domain

import (
	"context"
	"time"
)

// SpawnResult captures the outcome of a subprocess spawn attempt.
// Spawn failures are data, not errors: the caller marks the session
// failed and keeps going.
// Fields are ordered to minimize memory padding.
type SpawnResult struct {
	Attachment Attachment
	Error      string
	Success    bool
}

// SubprocessManager spawns and controls agent subprocesses, preferring
// a terminal multiplexer so output stays inspectable after exit.
type SubprocessManager interface {
	// Spawn launches the command under the multiplexer (or directly
	// when the multiplexer is disabled) and resolves the attachment.
	Spawn(ctx context.Context, name string, spec CommandSpec) SpawnResult

	// Stop sends SIGTERM to the attached pid if alive, then kills the
	// multiplexer window.
	Stop(ctx context.Context, att Attachment) error

	// Pause suspends the attached process with SIGSTOP. Returns false
	// when the pid is not alive.
	Pause(att Attachment) bool

	// Resume continues a paused process with SIGCONT. Returns false
	// when the pid is not alive.
	Resume(att Attachment) bool

	// IsAlive checks process liveness by signaling 0.
	IsAlive(pid int) bool

	// CaptureOutput reads recent scrollback from the attached pane.
	// Returns "" without error when the session has no pane.
	CaptureOutput(ctx context.Context, att Attachment, lines int) (string, error)

	// SendKeys injects text plus Enter into the attached pane.
	// Returns false without error when the session has no pane.
	SendKeys(ctx context.Context, att Attachment, text string) (bool, error)
}

// Multiplexer is the raw terminal-multiplexer surface SubprocessManager
// builds on. Implementations run tmux against a dedicated socket.
type Multiplexer interface {
	// HasSession checks whether a named session exists.
	HasSession(ctx context.Context, session string) (bool, error)

	// SpawnWindow creates the session running spec if it does not
	// exist, otherwise adds a new window to it. Returns the new pane
	// id and the pane leader pid.
	SpawnWindow(ctx context.Context, session, window string, spec CommandSpec) (paneID string, pid int, err error)

	// CapturePane returns the last lines of scrollback for a pane.
	CapturePane(ctx context.Context, target string, lines int) (string, error)

	// SendKeys types text followed by Enter into a pane.
	SendKeys(ctx context.Context, target, text string) error

	// KillWindow removes a window; missing windows are not an error.
	KillWindow(ctx context.Context, session, window string) error

	// KillSession tears down a whole session.
	KillSession(ctx context.Context, session string) error
}

// WorktreeManager manages per-session git worktrees.
type WorktreeManager interface {
	// Create adds a worktree for a new branch under the sibling
	// directory <repo>-worktrees/<shortID>. Returns its path.
	Create(workspacePath, shortID, branch string) (string, error)

	// Remove deletes a worktree, discarding uncommitted changes.
	Remove(workspacePath, worktreePath string) error

	// List returns the worktrees registered for a repository.
	List(workspacePath string) ([]WorktreeInfo, error)
}

// WorktreeInfo describes one registered worktree.
type WorktreeInfo struct {
	Path   string // Absolute path to worktree
	Branch string // Branch name
}

// Git provides the git operations the orchestrator and coordinator
// need. All paths are absolute directories inside a repository.
type Git interface {
	// IsRepo reports whether dir is inside a git work tree.
	IsRepo(dir string) bool

	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(dir string) (string, error)

	// HeadSHA returns the commit hash of HEAD.
	HeadSHA(dir string) (string, error)

	// BranchExists checks whether a local branch exists.
	BranchExists(dir, branch string) (bool, error)

	// Diff returns the unified diff against HEAD, truncated to
	// DiffLimit characters.
	Diff(dir string) (string, error)

	// DiffNumstat returns the raw `git diff --numstat HEAD` output.
	DiffNumstat(dir string) (string, error)

	// ChangedFiles returns paths modified relative to HEAD.
	ChangedFiles(dir string) ([]string, error)

	// Merge merges branch into the branch checked out in dir and
	// returns the new HEAD sha. A conflicted merge is aborted and
	// reported as ErrMergeConflict.
	Merge(dir, branch string) (string, error)

	// Revert reverts a merge commit (-m 1) and returns the revert
	// commit sha.
	Revert(dir, sha string) (string, error)
}

// DiffLimit caps diff and captured command output handed to callers.
const DiffLimit = 10_000

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// Execute runs the command and returns its combined output.
	Execute(cmd CommandSpec) ([]byte, error)

	// ExecuteCombined runs the command under ctx and returns merged
	// stdout+stderr. The process is killed when ctx expires.
	ExecuteCombined(ctx context.Context, cmd CommandSpec) ([]byte, error)

	// Start launches the command detached and returns its pid.
	Start(cmd CommandSpec) (int, error)
}

// PlaybookLibrary serves canned procedures from the playbook directory.
type PlaybookLibrary interface {
	List() ([]Playbook, error)
	Get(name string) (*Playbook, error)
}

// Notifier delivers out-of-band operator notifications. Failures are
// logged and swallowed; notification is never load-bearing.
type Notifier interface {
	SendNotification(ctx context.Context, recipient, text string) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults <- global <- local).
	Load() (*Config, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
