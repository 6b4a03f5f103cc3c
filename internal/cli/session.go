package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/infra/tmux"
	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newSessionCommand groups the session management subcommands.
func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage agent sessions",
		Long:  `Start, inspect, and control agent sessions. Each coding session runs an agent in its own tmux window on an isolated git worktree.`,
	}

	cmd.AddCommand(
		newSessionStartCommand(),
		newSessionListCommand(),
		newSessionShowCommand(),
		newSessionAttachCommand(),
		newSessionStopCommand(),
		newSessionPauseCommand(),
		newSessionResumeCommand(),
		newSessionArchiveCommand(),
		newSessionOutputCommand(),
		newSessionSendCommand(),
		newSessionAliveCommand(),
		newSessionDiffCommand(),
		newSessionRunCommand(),
		newSessionConflictsCommand(),
		newSessionMergeCommand(),
		newSessionRollbackCommand(),
		newSessionReviewCommand(),
	)

	return cmd
}

// newSessionStartCommand creates the session start subcommand.
func newSessionStartCommand() *cobra.Command {
	var opts struct {
		Agent  string
		Prompt string
		Model  string
	}

	cmd := &cobra.Command{
		Use:   "start <task-slug>",
		Short: "Start a coding agent session",
		Long: `Start a coding agent session for a task.

The server creates a worktree branched from the task workspace, opens
a tmux window inside it, and launches the agent. Without --agent the
backend is routed from the task's complexity tier.

Examples:
  # Let complexity routing pick the backend
  squad session start fix-login-bug

  # Pin the backend and give an opening prompt
  squad session start fix-login-bug --agent opencode -p "Start with the failing test"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var out rpc.StartSessionInfo
			err = client.Call(cmd.Context(), "session.start_coding", map[string]any{
				"task_slug":  args[0],
				"agent_type": opts.Agent,
				"prompt":     opts.Prompt,
				"model":      opts.Model,
			}, &out)
			if err != nil {
				return serverError(err)
			}

			w := cmd.OutOrStdout()
			s := out.Session
			_, _ = fmt.Fprintf(w, "Started session: %s\n", s.ID)
			_, _ = fmt.Fprintf(w, "  Agent: %s\n", s.AgentBackend)
			_, _ = fmt.Fprintf(w, "  Lifecycle: %s\n", s.Lifecycle)
			if s.WorktreePath != "" {
				_, _ = fmt.Fprintf(w, "  Worktree: %s\n", s.WorktreePath)
			}
			if s.Attachment.TmuxSession != "" {
				_, _ = fmt.Fprintf(w, "  tmux: %s:%s\n", s.Attachment.TmuxSession, s.Attachment.TmuxWindow)
				_, _ = fmt.Fprintf(w, "  Attach: squad session attach %s\n", s.ID)
			}
			if out.SpawnError != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: agent failed to spawn: %s\n", out.SpawnError)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Agent, "agent", "a", "", "Agent backend (claude-local, opencode, claude-code)")
	cmd.Flags().StringVarP(&opts.Prompt, "prompt", "p", "", "Initial prompt for the agent")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model override")

	return cmd
}

// newSessionListCommand creates the session list subcommand.
func newSessionListCommand() *cobra.Command {
	var opts struct {
		TaskSlug string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Long: `List sessions in TSV columns: ID, NAME, KIND, LIFECYCLE, TASK, AGE.

Examples:
  squad session list
  squad session list --task fix-login-bug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var sessions []*rpc.SessionInfo
			err = client.Call(cmd.Context(), "session.list", map[string]any{
				"task_slug": opts.TaskSlug,
			}, &sessions)
			if err != nil {
				return serverError(err)
			}

			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}
			printSessionList(cmd.OutOrStdout(), sessions)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.TaskSlug, "task", "t", "", "Filter by task slug")

	return cmd
}

// printSessionList prints sessions in TSV format.
func printSessionList(w io.Writer, sessions []*rpc.SessionInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	now := time.Now()
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tKIND\tLIFECYCLE\tTASK\tAGE")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.DisplayName,
			s.Kind,
			s.Lifecycle,
			orDash(s.TaskSlug),
			formatAge(now, s.Created),
		)
	}
}

// newSessionShowCommand creates the session show subcommand.
func newSessionShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show session details",
		Long: `Show one session, including its process attachment and, for
sessions with a recorded PID, whether the process is still alive.

Examples:
  squad session show 0f3a9c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var s *rpc.SessionInfo
			if err := client.Call(cmd.Context(), "session.get", sessionIDArg(args[0]), &s); err != nil {
				return serverError(err)
			}
			if s == nil {
				return fmt.Errorf("session not found: %s", args[0])
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Session: %s\n", s.ID)
			_, _ = fmt.Fprintf(w, "  Name: %s\n", s.DisplayName)
			_, _ = fmt.Fprintf(w, "  Kind: %s\n", s.Kind)
			_, _ = fmt.Fprintf(w, "  Lifecycle: %s\n", s.Lifecycle)
			_, _ = fmt.Fprintf(w, "  Agent: %s\n", s.AgentBackend)
			if s.Model != "" {
				_, _ = fmt.Fprintf(w, "  Model: %s\n", s.Model)
			}
			_, _ = fmt.Fprintf(w, "  Task: %s\n", orDash(s.TaskSlug))
			if s.WorktreePath != "" {
				_, _ = fmt.Fprintf(w, "  Worktree: %s\n", s.WorktreePath)
				_, _ = fmt.Fprintf(w, "  Branch: %s\n", s.BranchName)
			}
			if s.Attachment.TmuxSession != "" {
				_, _ = fmt.Fprintf(w, "  tmux: %s:%s\n", s.Attachment.TmuxSession, s.Attachment.TmuxWindow)
			}
			if s.Attachment.PID > 0 {
				state := "dead"
				var alive bool
				if err := client.Call(cmd.Context(), "session.check_liveness", sessionIDArg(s.ID), &alive); err == nil && alive {
					state = "alive"
				}
				_, _ = fmt.Fprintf(w, "  PID: %d (%s)\n", s.Attachment.PID, state)
			}
			_, _ = fmt.Fprintf(w, "  Created: %s\n", s.Created.Format(time.RFC3339))
			return nil
		},
	}
	return cmd
}

// attachFunc is a function variable for replacing the process with
// tmux attach, allowing tests to intercept it.
var attachFunc = func(session string) error {
	socket := domain.TmuxSocketPath(domain.DataDir())
	return tmux.NewClient(socket).Attach(session)
}

// newSessionAttachCommand creates the session attach subcommand.
func newSessionAttachCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach <session-id>",
		Short: "Attach to a session's tmux window",
		Long: `Attach the current terminal to a session's tmux window.

This replaces the squad process with tmux; detach with the usual
tmux prefix to get your shell back.

Examples:
  squad session attach 0f3a9c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var s *rpc.SessionInfo
			if err := client.Call(cmd.Context(), "session.get", sessionIDArg(args[0]), &s); err != nil {
				return serverError(err)
			}
			if s == nil {
				return fmt.Errorf("session not found: %s", args[0])
			}
			if s.Attachment.TmuxSession == "" {
				return fmt.Errorf("session has no tmux attachment")
			}

			// Not reached on success: attach replaces the process.
			return attachFunc(s.Attachment.TmuxSession)
		},
	}
	return cmd
}

// newSessionStopCommand creates the session stop subcommand.
func newSessionStopCommand() *cobra.Command {
	return newSessionTransitionCommand("stop", "session.stop", "Stopped",
		"Stop a running or paused session. The agent process is terminated and the worktree is removed; committed work stays on the session branch.")
}

// newSessionPauseCommand creates the session pause subcommand.
func newSessionPauseCommand() *cobra.Command {
	return newSessionTransitionCommand("pause", "session.pause", "Paused",
		"Pause a running session with SIGSTOP. The worktree and tmux window stay in place.")
}

// newSessionResumeCommand creates the session resume subcommand.
func newSessionResumeCommand() *cobra.Command {
	return newSessionTransitionCommand("resume", "session.resume", "Resumed",
		"Resume a paused session with SIGCONT.")
}

// newSessionArchiveCommand creates the session archive subcommand.
func newSessionArchiveCommand() *cobra.Command {
	return newSessionTransitionCommand("archive", "session.archive", "Archived",
		"Archive a finished session, stopping it first when it is still live.")
}

// newSessionTransitionCommand builds one of the lifecycle verbs; they
// differ only in method and wording.
func newSessionTransitionCommand(verb, method, past, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <session-id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a session",
		Long: long + `

Examples:
  squad session ` + verb + ` 0f3a9c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var s rpc.SessionInfo
			if err := client.Call(cmd.Context(), method, sessionIDArg(args[0]), &s); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", past, s.ID, s.Lifecycle)
			return nil
		},
	}
	return cmd
}

// newSessionOutputCommand creates the session output subcommand.
func newSessionOutputCommand() *cobra.Command {
	var opts struct {
		Lines int
	}

	cmd := &cobra.Command{
		Use:   "output <session-id>",
		Short: "Show captured session output",
		Long: `Print the tail of a session's tmux pane.

Examples:
  squad session output 0f3a9c...
  squad session output 0f3a9c... -n 200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var output string
			err = client.Call(cmd.Context(), "session.get_output", map[string]any{
				"session_id": args[0],
				"lines":      opts.Lines,
			}, &output)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 0, "Number of trailing lines (default: full visible pane)")

	return cmd
}

// newSessionSendCommand creates the session send subcommand.
func newSessionSendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <session-id> <text>",
		Short: "Send text to a session",
		Long: `Type text into a session's tmux pane, followed by Enter.

Examples:
  squad session send 0f3a9c... "run the tests again"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var sent bool
			err = client.Call(cmd.Context(), "session.send_to", map[string]any{
				"session_id": args[0],
				"text":       args[1],
			}, &sent)
			if err != nil {
				return serverError(err)
			}

			if sent {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Sent")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not delivered (no live pane)")
			}
			return nil
		},
	}
	return cmd
}

// newSessionAliveCommand creates the session alive subcommand.
func newSessionAliveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alive <session-id>",
		Short: "Check whether the agent process is alive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var alive bool
			if err := client.Call(cmd.Context(), "session.check_liveness", sessionIDArg(args[0]), &alive); err != nil {
				return serverError(err)
			}

			if alive {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "alive")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dead")
			}
			return nil
		},
	}
	return cmd
}

// newSessionDiffCommand creates the session diff subcommand.
func newSessionDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <session-id>",
		Short: "Show the session's uncommitted diff",
		Long: `Show the working-tree diff of a session's worktree against HEAD.

Examples:
  squad session diff 0f3a9c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var diff rpc.DiffInfo
			if err := client.Call(cmd.Context(), "session.get_diff", sessionIDArg(args[0]), &diff); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), diff.Diff)
			if diff.Truncated {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\n[diff truncated]")
			}
			return nil
		},
	}
	return cmd
}

// newSessionRunCommand creates the session run subcommand.
func newSessionRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <session-id> <command>...",
		Short: "Run a command in the session's worktree",
		Long: `Run a one-off command inside a session's worktree and print its
combined output. The command is capped at 60 seconds.

Examples:
  squad session run 0f3a9c... go test ./...
  squad session run 0f3a9c... "git log --oneline -5"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var result rpc.RunResultInfo
			err = client.Call(cmd.Context(), "session.run_in_worktree", map[string]any{
				"session_id": args[0],
				"command":    strings.Join(args[1:], " "),
			}, &result)
			if err != nil {
				return serverError(err)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprint(w, result.Output)
			if result.Truncated {
				_, _ = fmt.Fprintln(w, "\n[output truncated]")
			}
			if result.TimedOut {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "command timed out")
			}
			if result.ExitError != "" {
				return fmt.Errorf("command failed: %s", result.ExitError)
			}
			return nil
		},
	}
	return cmd
}

// newSessionConflictsCommand creates the session conflicts subcommand.
func newSessionConflictsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts <task-slug>",
		Short: "Show file overlap between a task's live sessions",
		Long: `Compare the uncommitted changes of every pair of live sessions on
a task and report files both of them touch.

Examples:
  squad session conflicts fix-login-bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var conflicts []*rpc.ConflictInfo
			err = client.Call(cmd.Context(), "session.conflicts", map[string]any{
				"task_slug": args[0],
			}, &conflicts)
			if err != nil {
				return serverError(err)
			}

			if len(conflicts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No conflicts.")
				return nil
			}
			w := cmd.OutOrStdout()
			for _, c := range conflicts {
				_, _ = fmt.Fprintf(w, "%s <-> %s\n", c.SessionA, c.SessionB)
				for _, f := range c.Files {
					_, _ = fmt.Fprintf(w, "  %s\n", f)
				}
			}
			return nil
		},
	}
	return cmd
}

// newSessionMergeCommand creates the session merge subcommand.
func newSessionMergeCommand() *cobra.Command {
	var opts struct {
		Force bool
	}

	cmd := &cobra.Command{
		Use:   "merge <session-id>",
		Short: "Merge the session branch into the workspace",
		Long: `Merge a session's branch into the task workspace's current branch
and record the merge for rollback. Uncommitted changes in the
workspace abort the merge unless --force is given.

Examples:
  squad session merge 0f3a9c...
  squad session merge 0f3a9c... --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var record rpc.MergeInfo
			err = client.Call(cmd.Context(), "session.merge", map[string]any{
				"session_id": args[0],
				"force":      opts.Force,
			}, &record)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Merged %s (commit %s)\n", record.BranchName, record.MergeCommitSHA)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Merge even with uncommitted workspace changes")

	return cmd
}

// newSessionRollbackCommand creates the session rollback subcommand.
func newSessionRollbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback <session-id>",
		Short: "Revert the session's merge",
		Long: `Revert the most recent non-reverted merge of a session with
git revert, leaving history intact.

Examples:
  squad session rollback 0f3a9c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var out struct {
				RevertCommitSHA string `json:"revert_commit_sha"`
			}
			if err := client.Call(cmd.Context(), "session.rollback", sessionIDArg(args[0]), &out); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reverted (commit %s)\n", out.RevertCommitSHA)
			return nil
		},
	}
	return cmd
}

// newSessionReviewCommand creates the session review subcommand.
func newSessionReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <session-id>",
		Short: "Review a session's work",
		Long: `Inspect a completed or stalled session: diff stats, optional test
run, and an LLM verdict. A failed verdict escalates to the next agent
tier with a fresh session.

Examples:
  squad session review 0f3a9c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var review rpc.ReviewInfo
			if err := client.Call(cmd.Context(), "session.review", sessionIDArg(args[0]), &review); err != nil {
				return serverError(err)
			}

			w := cmd.OutOrStdout()
			r := review.Report
			_, _ = fmt.Fprintf(w, "Review: %s\n", r.Status)
			_, _ = fmt.Fprintf(w, "  Summary: %s\n", r.Summary)
			_, _ = fmt.Fprintf(w, "  Changes: %d files (+%d/-%d)\n", r.FilesChanged, r.Insertions, r.Deletions)
			if r.TestsPassed+r.TestsFailed+r.TestErrors > 0 {
				_, _ = fmt.Fprintf(w, "  Tests: %d passed, %d failed, %d errors\n",
					r.TestsPassed, r.TestsFailed, r.TestErrors)
			}
			if review.EscalatedTo != "" {
				_, _ = fmt.Fprintf(w, "Escalated to %s", review.EscalatedTo)
				if review.EscalationSession != nil {
					_, _ = fmt.Fprintf(w, " (session %s)", review.EscalationSession.ID)
				}
				_, _ = fmt.Fprintln(w)
			}
			return nil
		},
	}
	return cmd
}

// sessionIDArg wraps a session id into the params shape shared by all
// single-session methods.
func sessionIDArg(id string) map[string]any {
	return map[string]any{"session_id": id}
}
