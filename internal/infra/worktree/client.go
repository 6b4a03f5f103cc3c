// Package worktree provides git worktree operations.
package worktree

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// Client manages per-session git worktrees. It is stateless; every
// call names the workspace it operates on.
type Client struct{}

// NewClient creates a new worktree client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.WorktreeManager interface.
var _ domain.WorktreeManager = (*Client)(nil)

// Create adds a worktree on a fresh branch under the sibling directory
// <repo>-worktrees/<shortID> and returns its path. If a worktree for
// the branch is already registered with a live directory, that path is
// returned as-is.
func (c *Client) Create(workspacePath, shortID, branch string) (string, error) {
	path := domain.WorktreePath(workspacePath, shortID)

	// Reuse an existing registration when its directory survived.
	worktrees, err := c.List(workspacePath)
	if err != nil {
		return "", err
	}
	for _, wt := range worktrees {
		if wt.Branch == branch {
			if _, statErr := os.Stat(wt.Path); statErr == nil {
				return wt.Path, nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create worktree base dir: %w", err)
	}

	args := []string{"worktree", "add", "-b", branch, path}
	cmd := exec.Command("git", args...)
	cmd.Dir = workspacePath
	out, err := cmd.CombinedOutput()
	if err != nil {
		outStr := string(out)
		// A stale registration (directory deleted out-of-band) blocks
		// re-adding; prune and retry once.
		if strings.Contains(outStr, "already registered") || strings.Contains(outStr, "already exists") {
			if pruneErr := c.prune(workspacePath); pruneErr != nil {
				return "", fmt.Errorf("prune stale worktrees: %w", pruneErr)
			}
			cmd = exec.Command("git", args...)
			cmd.Dir = workspacePath
			out, err = cmd.CombinedOutput()
			if err != nil {
				return "", fmt.Errorf("create worktree after prune: %w: %s", err, string(out))
			}
		} else {
			return "", fmt.Errorf("create worktree: %w: %s", err, outStr)
		}
	}

	return path, nil
}

// Remove deletes a worktree, discarding any uncommitted changes in it.
// The branch itself survives so merged or abandoned work stays
// recoverable.
func (c *Client) Remove(workspacePath, worktreePath string) error {
	cmd := exec.Command("git", "worktree", "remove", "--force", worktreePath)
	cmd.Dir = workspacePath

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("remove worktree: %w: %s", err, string(out))
	}
	return nil
}

// List returns all worktrees registered for the repository, the main
// checkout included.
func (c *Client) List(workspacePath string) ([]domain.WorktreeInfo, error) {
	cmd := exec.Command("git", "worktree", "list", "--porcelain")
	cmd.Dir = workspacePath

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	return parseWorktreeList(string(out))
}

// parseWorktreeList parses the porcelain output of git worktree list.
// Format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	<blank line>
func parseWorktreeList(output string) ([]domain.WorktreeInfo, error) {
	var worktrees []domain.WorktreeInfo
	var current domain.WorktreeInfo

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "":
			if current.Path != "" {
				worktrees = append(worktrees, current)
			}
			current = domain.WorktreeInfo{}
		}
	}

	// Handle last entry if no trailing newline
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse worktree list: %w", err)
	}

	return worktrees, nil
}

// prune removes stale worktree registrations whose directories no
// longer exist.
func (c *Client) prune(workspacePath string) error {
	cmd := exec.Command("git", "worktree", "prune")
	cmd.Dir = workspacePath

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("prune worktrees: %w: %s", err, string(out))
	}
	return nil
}
