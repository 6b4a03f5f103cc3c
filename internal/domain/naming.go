package domain

import (
	"fmt"
	"os"
	"path/filepath"
)

// SessionBranch returns the isolation branch for a session.
// Format: session/<backend>-<short-id>
func SessionBranch(backend Backend, shortID string) string {
	return fmt.Sprintf("session/%s-%s", backend, shortID)
}

// WorktreeBaseDir returns the sibling directory holding a repository's
// session worktrees. Format: <repo>-worktrees
func WorktreeBaseDir(workspacePath string) string {
	parent := filepath.Dir(workspacePath)
	return filepath.Join(parent, filepath.Base(workspacePath)+"-worktrees")
}

// WorktreePath returns the worktree directory for a session.
func WorktreePath(workspacePath, shortID string) string {
	return filepath.Join(WorktreeBaseDir(workspacePath), shortID)
}

// TmuxTarget renders the "session:window" target a tmux command takes.
func TmuxTarget(session, window string) string {
	return session + ":" + window
}

// DataDir returns the squad data directory.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "squad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "squad")
	}
	return filepath.Join(home, ".local", "share", "squad")
}

// ConfigDir returns the global configuration directory.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "squad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "squad")
}

// DefaultSocketPath returns the control socket path: the runtime
// directory when available, else a uid-scoped file under /tmp.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "squad.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("squad-%d.sock", os.Getuid()))
}

// StorePath returns the JSON state file inside the data directory.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, "state.json")
}

// LogPath returns the server log file inside the data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "squad.log")
}

// TmuxSocketPath returns the dedicated multiplexer socket.
func TmuxSocketPath(dataDir string) string {
	return filepath.Join(dataDir, "tmux.sock")
}

// PlaybookDir returns the YAML playbook directory.
func PlaybookDir(configDir string) string {
	return filepath.Join(configDir, "playbooks")
}

// TmuxSessionName prefixes a session display name for the multiplexer
// namespace. Format: <prefix>-<display-name>
func TmuxSessionName(prefix, displayName string) string {
	return prefix + "-" + displayName
}

// WorkspaceConfigDir returns the per-workspace config directory.
func WorkspaceConfigDir(workspacePath string) string {
	return filepath.Join(workspacePath, ".squad")
}

// ConfigFileName is the TOML configuration file name, looked up in the
// global config directory and in <workspace>/.squad/.
const ConfigFileName = "config.toml"
