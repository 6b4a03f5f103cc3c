// Package tmux drives a dedicated tmux server for agent sessions.
package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/runoshun/squad/internal/domain"
)

// ExecFunc is the function signature for syscall.Exec.
// It is used to allow testing of the Attach method.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// defaultConfig keeps the dedicated server predictable regardless of
// the operator's own ~/.tmux.conf.
const defaultConfig = `# squad tmux configuration
set -g escape-time 0        # No escape delay
set -g history-limit 50000  # Deep scrollback for agent output
`

// Client manages tmux sessions on a dedicated socket so squad windows
// never mix with the operator's own tmux server.
// Fields are ordered to minimize memory padding.
type Client struct {
	execFunc   ExecFunc // Function to use for exec (default: syscall.Exec)
	socketPath string   // Path to the tmux socket
	configPath string   // Path to tmux configuration
}

// NewClient creates a new tmux client.
// socketPath is the dedicated tmux socket (typically <data>/tmux.sock);
// the config file is created next to it on first use.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		configPath: filepath.Join(filepath.Dir(socketPath), "tmux.conf"),
		execFunc:   syscall.Exec,
	}
}

// SetExecFunc sets the exec function for testing purposes.
// This allows tests to verify the arguments passed to syscall.Exec
// without actually replacing the process.
func (c *Client) SetExecFunc(fn ExecFunc) {
	c.execFunc = fn
}

// Ensure Client implements domain.Multiplexer interface.
var _ domain.Multiplexer = (*Client)(nil)

// HasSession checks whether a named session exists on the socket.
func (c *Client) HasSession(_ context.Context, session string) (bool, error) {
	// tmux -S <socket> has-session -t =<name>
	// Exit code 0 = exists, 1 = doesn't exist. The = prefix forces an
	// exact match instead of tmux's prefix matching.
	cmd := exec.Command("tmux", //nolint:gosec // session names follow squad naming conventions
		"-S", c.socketPath,
		"has-session",
		"-t", "="+session,
	)

	err := cmd.Run()
	if err != nil {
		// A missing socket means no server, hence no session.
		return false, nil
	}
	return true, nil
}

// SpawnWindow creates the session running spec if it does not exist,
// otherwise adds a window to it. The window keeps its pane around
// after the command exits so output stays inspectable, and the prefix
// is remapped away from C-b so agents that emit it are unaffected.
// Returns the new pane id and the pane leader pid.
func (c *Client) SpawnWindow(ctx context.Context, session, window string, spec domain.CommandSpec) (string, int, error) {
	if err := c.ensureConfig(); err != nil {
		return "", 0, err
	}

	exists, err := c.HasSession(ctx, session)
	if err != nil {
		return "", 0, fmt.Errorf("check session: %w", err)
	}

	var args []string
	if exists {
		// tmux -S <socket> new-window -t <session> -n <window> [-e K=V]... [-c dir] <cmd>
		args = []string{"-S", c.socketPath, "-f", c.configPath, "new-window", "-t", session, "-n", window}
	} else {
		// tmux -S <socket> new-session -d -s <session> -n <window> [-e K=V]... [-c dir] <cmd>
		args = []string{"-S", c.socketPath, "-f", c.configPath, "new-session", "-d", "-s", session, "-n", window}
	}
	for k, v := range spec.Env {
		args = append(args, "-e", k+"="+v)
	}
	if spec.Dir != "" {
		args = append(args, "-c", spec.Dir)
	}
	args = append(args, spec.FullCommand())

	cmd := exec.CommandContext(ctx, "tmux", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", 0, fmt.Errorf("spawn window: %w: %s", err, string(out))
	}

	target := domain.TmuxTarget(session, window)

	// Keep the pane alive after the agent exits so its final output
	// can still be captured and reviewed.
	if out, err := c.run(ctx, "set-option", "-t", target, "remain-on-exit", "on"); err != nil {
		return "", 0, fmt.Errorf("set remain-on-exit: %w: %s", err, out)
	}

	// Agents routinely emit C-b in their own output; move the prefix
	// out of the way for the whole session.
	if out, err := c.run(ctx, "set-option", "-t", session, "prefix", "C-]"); err != nil {
		return "", 0, fmt.Errorf("set prefix: %w: %s", err, out)
	}

	paneID, pid, err := c.panes(ctx, target)
	if err != nil {
		return "", 0, err
	}
	return paneID, pid, nil
}

// CapturePane returns the last lines of scrollback for a pane target.
func (c *Client) CapturePane(ctx context.Context, target string, lines int) (string, error) {
	// tmux -S <socket> capture-pane -p -t <target> -S -<lines>
	// -p prints to stdout, -S starts <lines> above the visible area.
	out, err := c.run(ctx, "capture-pane", "-p", "-t", target, "-S", fmt.Sprintf("-%d", lines))
	if err != nil {
		return "", fmt.Errorf("capture pane: %w: %s", err, out)
	}
	return strings.TrimSuffix(out, "\n"), nil
}

// SendKeys types text followed by Enter into a pane target.
func (c *Client) SendKeys(ctx context.Context, target, text string) error {
	if out, err := c.run(ctx, "send-keys", "-t", target, text, "Enter"); err != nil {
		return fmt.Errorf("send keys: %w: %s", err, out)
	}
	return nil
}

// KillWindow removes a window. A window that is already gone (or a
// session that never existed) is not an error.
func (c *Client) KillWindow(ctx context.Context, session, window string) error {
	target := domain.TmuxTarget(session, window)
	out, err := c.run(ctx, "kill-window", "-t", target)
	if err != nil {
		if strings.Contains(out, "can't find") || strings.Contains(out, "no server") {
			return nil
		}
		return fmt.Errorf("kill window: %w: %s", err, out)
	}
	return nil
}

// KillSession tears down a whole session. Missing sessions are not an
// error.
func (c *Client) KillSession(ctx context.Context, session string) error {
	out, err := c.run(ctx, "kill-session", "-t", "="+session)
	if err != nil {
		if strings.Contains(out, "can't find") || strings.Contains(out, "no server") {
			return nil
		}
		return fmt.Errorf("kill session: %w: %s", err, out)
	}
	return nil
}

// Attach replaces the current process with tmux attached to session.
func (c *Client) Attach(session string) error {
	running, err := c.HasSession(context.Background(), session)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !running {
		return domain.ErrNoSession
	}

	args := []string{
		"-S", c.socketPath,
		"-f", c.configPath,
		"attach",
		"-t", "=" + session,
	}

	tmuxPath, err := exec.LookPath("tmux")
	if err != nil {
		return fmt.Errorf("find tmux: %w", err)
	}

	// Prepend "tmux" as argv[0]
	execArgs := append([]string{"tmux"}, args...)

	if err := c.execFunc(tmuxPath, execArgs, os.Environ()); err != nil {
		return fmt.Errorf("attach session: %w", err)
	}

	// This line should never be reached
	return nil
}

// ListSessions returns the names of all sessions on the socket.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		if strings.Contains(out, "no server") {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w: %s", err, out)
	}
	var sessions []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			sessions = append(sessions, line)
		}
	}
	return sessions, nil
}

// panes resolves the pane id and pane leader pid for a window target.
func (c *Client) panes(ctx context.Context, target string) (string, int, error) {
	out, err := c.run(ctx, "list-panes", "-t", target, "-F", "#{pane_id} #{pane_pid}")
	if err != nil {
		return "", 0, fmt.Errorf("list panes: %w: %s", err, out)
	}
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("unexpected list-panes output: %q", out)
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("parse pane pid: %w", err)
	}
	return fields[0], pid, nil
}

// run executes a tmux subcommand against the dedicated socket and
// returns its combined output.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-S", c.socketPath}, args...)
	cmd := exec.CommandContext(ctx, "tmux", full...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// ensureConfig writes the default server config next to the socket if
// it is not there yet.
func (c *Client) ensureConfig() error {
	if _, err := os.Stat(c.configPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("create tmux config dir: %w", err)
	}
	if err := os.WriteFile(c.configPath, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("create tmux config: %w", err)
	}
	return nil
}
