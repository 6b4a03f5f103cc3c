package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newMemoryCommand groups the shared-memory subcommands.
func newMemoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage shared memories",
		Long:  `Store and retrieve notes shared between agents and the coordinator. Memories scope to a task, a session, or globally.`,
	}

	cmd.AddCommand(
		newMemoryStoreCommand(),
		newMemoryListCommand(),
		newMemorySearchCommand(),
		newMemoryRmCommand(),
	)

	return cmd
}

// newMemoryStoreCommand creates the memory store subcommand.
func newMemoryStoreCommand() *cobra.Command {
	var opts struct {
		Key      string
		Content  string
		Scope    string
		TaskSlug string
	}

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store a memory entry",
		Long: `Store a memory entry. Without --scope it is inferred: task when
--task is given, global otherwise.

Examples:
  squad memory store -k "auth-notes" -c "tokens rotate hourly" -t fix-login-bug
  squad memory store -k "style" -c "tabs, not spaces" --scope global`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Key == "" || opts.Content == "" {
				return fmt.Errorf("required flag(s) \"key\", \"content\" not set")
			}

			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var entry rpc.MemoryInfo
			err = client.Call(cmd.Context(), "memory.store", map[string]any{
				"key":       opts.Key,
				"content":   opts.Content,
				"scope":     opts.Scope,
				"task_slug": opts.TaskSlug,
			}, &entry)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored memory: %s (id=%s)\n", entry.Key, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Key, "key", "k", "", "Memory key (required)")
	cmd.Flags().StringVarP(&opts.Content, "content", "c", "", "Memory content (required)")
	cmd.Flags().StringVarP(&opts.Scope, "scope", "s", "", "Scope (task, session, global)")
	cmd.Flags().StringVarP(&opts.TaskSlug, "task", "t", "", "Task slug the memory belongs to")

	return cmd
}

// newMemoryListCommand creates the memory list subcommand.
func newMemoryListCommand() *cobra.Command {
	var opts struct {
		TaskSlug string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memory entries",
		Long: `List memory entries, optionally limited to one task.

Examples:
  squad memory list
  squad memory list --task fix-login-bug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var entries []*rpc.MemoryInfo
			err = client.Call(cmd.Context(), "memory.list", map[string]any{
				"task_slug": opts.TaskSlug,
			}, &entries)
			if err != nil {
				return serverError(err)
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No memories found.")
				return nil
			}
			printMemoryList(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.TaskSlug, "task", "t", "", "Filter by task slug")

	return cmd
}

// newMemorySearchCommand creates the memory search subcommand.
func newMemorySearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memories",
		Long: `Search memory keys and content for a substring, newest first.

Examples:
  squad memory search auth`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var entries []*rpc.MemoryInfo
			err = client.Call(cmd.Context(), "memory.search", map[string]any{
				"query": args[0],
			}, &entries)
			if err != nil {
				return serverError(err)
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
				return nil
			}
			printMemoryList(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	return cmd
}

// printMemoryList prints memory entries in TSV format.
func printMemoryList(w io.Writer, entries []*rpc.MemoryInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tKEY\tSCOPE\tTASK\tCONTENT")
	for _, m := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Key,
			m.Scope,
			orDash(m.TaskSlug),
			truncate(m.Content, 60),
		)
	}
}

// newMemoryRmCommand creates the memory rm subcommand.
func newMemoryRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a memory entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var deleted bool
			if err := client.Call(cmd.Context(), "memory.delete", map[string]any{"id": args[0]}, &deleted); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted memory: %s\n", args[0])
			return nil
		},
	}
	return cmd
}
