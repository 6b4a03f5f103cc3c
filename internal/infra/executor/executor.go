// Package executor provides command execution functionality.
package executor

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	"github.com/runoshun/squad/internal/domain"
)

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// Execute runs the command and returns its combined output.
func (c *Client) Execute(cmd domain.CommandSpec) ([]byte, error) {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted UseCase code
	execCmd := exec.Command(cmd.Program, cmd.Args...)
	applySpec(execCmd, cmd)
	return execCmd.CombinedOutput()
}

// ExecuteCombined runs the command under ctx and returns merged
// stdout+stderr. The process is killed when ctx expires; the partial
// output collected so far is still returned alongside the error.
func (c *Client) ExecuteCombined(ctx context.Context, cmd domain.CommandSpec) ([]byte, error) {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted UseCase code
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	applySpec(execCmd, cmd)
	out, err := execCmd.CombinedOutput()
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err
}

// Start launches the command detached in its own session and returns
// its pid. The caller owns the process from then on.
func (c *Client) Start(cmd domain.CommandSpec) (int, error) {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted UseCase code
	execCmd := exec.Command(cmd.Program, cmd.Args...)
	applySpec(execCmd, cmd)
	execCmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	execCmd.Stdin = nil
	if err := execCmd.Start(); err != nil {
		return 0, err
	}
	pid := execCmd.Process.Pid
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = execCmd.Wait() }()
	return pid, nil
}

func applySpec(execCmd *exec.Cmd, cmd domain.CommandSpec) {
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		env := os.Environ()
		for k, v := range cmd.Env {
			env = append(env, k+"="+v)
		}
		execCmd.Env = env
	}
}
