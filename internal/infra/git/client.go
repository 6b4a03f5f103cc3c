// Package git provides git operations against registered workspaces.
package git

import (
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/squad/internal/domain"
)

// Client implements domain.Git. Read-only queries go through go-git;
// history-mutating operations (merge, revert) and diff generation shell
// out so their behavior matches what a developer sees on the command
// line.
type Client struct{}

// NewClient creates a new git client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.Git interface.
var _ domain.Git = (*Client)(nil)

// open resolves the repository containing dir, following worktree
// .git files back to the common git directory.
func open(dir string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// IsRepo reports whether dir is inside a git work tree.
func (c *Client) IsRepo(dir string) bool {
	_, err := open(dir)
	return err == nil
}

// CurrentBranch returns the branch checked out in dir, or "HEAD" when
// detached.
func (c *Client) CurrentBranch(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", domain.ErrNotGitRepository
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "HEAD", nil
	}
	return head.Name().Short(), nil
}

// HeadSHA returns the commit hash of HEAD.
func (c *Client) HeadSHA(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", domain.ErrNotGitRepository
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// BranchExists checks whether a local branch exists.
func (c *Client) BranchExists(dir, branch string) (bool, error) {
	repo, err := open(dir)
	if err != nil {
		return false, domain.ErrNotGitRepository
	}
	_, err = repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, fmt.Errorf("failed to check branch existence: %w", err)
}

// Diff returns the unified diff against HEAD, truncated to
// domain.DiffLimit characters.
func (c *Client) Diff(dir string) (string, error) {
	out, err := runGit(dir, "diff", "HEAD")
	if err != nil {
		return "", err
	}
	if len(out) > domain.DiffLimit {
		out = out[:domain.DiffLimit] + "\n... (truncated)"
	}
	return out, nil
}

// DiffNumstat returns the raw `git diff --numstat HEAD` output.
func (c *Client) DiffNumstat(dir string) (string, error) {
	return runGit(dir, "diff", "--numstat", "HEAD")
}

// ChangedFiles returns paths modified relative to HEAD.
func (c *Client) ChangedFiles(dir string) ([]string, error) {
	out, err := runGit(dir, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Merge merges branch into the branch checked out in dir and returns
// the new HEAD sha. A conflicted merge is aborted before returning
// domain.ErrMergeConflict so the workspace is never left mid-merge.
func (c *Client) Merge(dir, branch string) (string, error) {
	//nolint:gosec // branch name is used as argument, not shell command
	cmd := exec.Command("git", "merge", "--no-ff", "--no-edit", branch)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		if isConflict(string(out)) {
			abort := exec.Command("git", "merge", "--abort")
			abort.Dir = dir
			_ = abort.Run()
			return "", fmt.Errorf("%w: merging %s", domain.ErrMergeConflict, branch)
		}
		return "", fmt.Errorf("failed to merge branch %s: %w: %s", branch, err, string(out))
	}
	return c.HeadSHA(dir)
}

// Revert reverts a merge commit (mainline 1) and returns the revert
// commit sha.
func (c *Client) Revert(dir, sha string) (string, error) {
	//nolint:gosec // sha is used as argument, not shell command
	cmd := exec.Command("git", "revert", "-m", "1", "--no-edit", sha)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to revert %s: %w: %s", sha, err, string(out))
	}
	return c.HeadSHA(dir)
}

func isConflict(output string) bool {
	return strings.Contains(output, "CONFLICT") ||
		strings.Contains(output, "Automatic merge failed")
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return string(out), nil
}
