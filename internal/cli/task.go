package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newTaskCommand groups the task management subcommands.
func newTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  `Create, inspect, and retire tasks. A task is the unit of work sessions attach to; its slug is the handle every other command uses.`,
	}

	cmd.AddCommand(
		newTaskNewCommand(),
		newTaskListCommand(),
		newTaskShowCommand(),
		newTaskArchiveCommand(),
		newTaskRmCommand(),
		newTaskDepCommand(),
		newTaskReadyCommand(),
	)

	return cmd
}

// newTaskNewCommand creates the task new subcommand.
func newTaskNewCommand() *cobra.Command {
	var opts struct {
		Workspace  string
		Complexity string
		Tags       []string
		DependsOn  []string
	}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new task",
		Long: `Create a task. The slug is derived from the title (lowercase,
punctuation stripped, spaces collapsed to hyphens) and must be unique
among live tasks.

Examples:
  # Create a task bound to a repository
  squad task new "Fix login bug" --workspace ~/src/webapp

  # Route to a senior-tier agent and tag it
  squad task new "Rework auth flow" --complexity senior --tag auth

  # Chain work: deploy waits until the fix is archived
  squad task new "Deploy fix" --depends-on fix-login-bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := opts.Workspace
			if workspace != "" {
				abs, err := filepath.Abs(workspace)
				if err != nil {
					return fmt.Errorf("resolve workspace: %w", err)
				}
				info, err := os.Stat(abs)
				if err != nil || !info.IsDir() {
					return fmt.Errorf("workspace path is not a directory: %s", abs)
				}
				workspace = abs
			}

			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var task rpc.TaskInfo
			err = client.Call(cmd.Context(), "task.create", map[string]any{
				"title":          args[0],
				"workspace_path": workspace,
				"complexity":     opts.Complexity,
				"tags":           opts.Tags,
				"depends_on":     opts.DependsOn,
			}, &task)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s (%s)\n", task.Slug, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Workspace, "workspace", "w", "", "Workspace path (git repository the task works in)")
	cmd.Flags().StringVar(&opts.Complexity, "complexity", "", "Complexity tier for agent routing (junior, mid, senior)")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Tags (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.DependsOn, "depends-on", nil, "Slugs this task depends on (can specify multiple)")

	return cmd
}

// newTaskListCommand creates the task list subcommand.
func newTaskListCommand() *cobra.Command {
	var opts struct {
		All bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks in TSV columns: SLUG, STATUS, COMPLEXITY, TAGS, TITLE.

Archived tasks are hidden by default; deleted tasks never show.

Examples:
  squad task list
  squad task list --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var tasks []*rpc.TaskInfo
			err = client.Call(cmd.Context(), "task.list", map[string]any{
				"include_archived": opts.All,
			}, &tasks)
			if err != nil {
				return serverError(err)
			}

			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			printTaskList(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include archived tasks")

	return cmd
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*rpc.TaskInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "SLUG\tSTATUS\tCOMPLEXITY\tTAGS\tTITLE")
	for _, task := range tasks {
		tags := "-"
		if len(task.Tags) > 0 {
			tags = "[" + strings.Join(task.Tags, ",") + "]"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			task.Slug,
			task.Status,
			orDash(task.Complexity),
			tags,
			task.Title,
		)
	}
}

// newTaskShowCommand creates the task show subcommand.
func newTaskShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show task details",
		Long: `Show a task and its sessions.

Examples:
  squad task show fix-login-bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var detail *rpc.TaskDetailInfo
			if err := client.Call(cmd.Context(), "task.get", map[string]any{"slug": args[0]}, &detail); err != nil {
				return serverError(err)
			}
			if detail == nil || detail.Task == nil {
				return fmt.Errorf("task not found: %s", args[0])
			}

			printTaskDetails(cmd.OutOrStdout(), detail)
			return nil
		},
	}
	return cmd
}

// printTaskDetails prints one task with its sessions.
func printTaskDetails(w io.Writer, detail *rpc.TaskDetailInfo) {
	task := detail.Task

	_, _ = fmt.Fprintf(w, "Task: %s\n", task.Title)
	_, _ = fmt.Fprintf(w, "  Slug: %s\n", task.Slug)
	_, _ = fmt.Fprintf(w, "  Status: %s\n", task.Status)
	if task.WorkspacePath != "" {
		_, _ = fmt.Fprintf(w, "  Workspace: %s\n", task.WorkspacePath)
	}
	if task.Complexity != "" {
		_, _ = fmt.Fprintf(w, "  Complexity: %s\n", task.Complexity)
	}
	if len(task.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "  Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	if len(task.DependsOn) > 0 {
		_, _ = fmt.Fprintf(w, "  Depends on: %s\n", strings.Join(task.DependsOn, ", "))
	}
	_, _ = fmt.Fprintf(w, "  Created: %s\n", task.Created.Format(time.RFC3339))

	if len(detail.Sessions) > 0 {
		_, _ = fmt.Fprintln(w, "\nSessions:")
		for _, s := range detail.Sessions {
			_, _ = fmt.Fprintf(w, "  %s [%s] %s\n", s.ID, s.Lifecycle, s.DisplayName)
		}
	}
}

// newTaskArchiveCommand creates the task archive subcommand.
func newTaskArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <slug>",
		Short: "Archive a completed task",
		Long: `Archive a task. Tasks that depended on it and have no other
blockers are reported as unblocked.

Examples:
  squad task archive fix-login-bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var out rpc.ArchiveTaskInfo
			if err := client.Call(cmd.Context(), "task.archive", map[string]any{"slug": args[0]}, &out); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Archived: %s\n", out.Task.Slug)
			if len(out.Unblocked) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unblocked: %s\n", strings.Join(out.Unblocked, ", "))
			}
			return nil
		},
	}
	return cmd
}

// newTaskRmCommand creates the task rm subcommand.
func newTaskRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <slug>",
		Short: "Delete a task",
		Long: `Soft-delete a task. The record stays in the store but drops out
of every listing, and its slug becomes reusable.

Examples:
  squad task rm fix-login-bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var task rpc.TaskInfo
			if err := client.Call(cmd.Context(), "task.delete", map[string]any{"slug": args[0]}, &task); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", task.Slug)
			return nil
		},
	}
	return cmd
}

// newTaskDepCommand creates the task dep subcommand.
func newTaskDepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep <slug> <depends-on>",
		Short: "Add a dependency between tasks",
		Long: `Make <slug> depend on <depends-on>. The dependency blocks <slug>
until <depends-on> is archived. Cycles are rejected.

Examples:
  squad task dep deploy-fix fix-login-bug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var task rpc.TaskInfo
			err = client.Call(cmd.Context(), "task.add_dependency", map[string]any{
				"slug":       args[0],
				"depends_on": args[1],
			}, &task)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

// newTaskReadyCommand creates the task ready subcommand.
func newTaskReadyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List tasks ready to start",
		Long: `List active tasks whose dependencies are all archived, i.e. work
an agent could pick up right now.

Examples:
  squad task ready`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var tasks []*rpc.TaskInfo
			if err := client.Call(cmd.Context(), "task.ready", nil, &tasks); err != nil {
				return serverError(err)
			}

			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks ready.")
				return nil
			}
			printTaskList(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	return cmd
}
