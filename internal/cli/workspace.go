package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newWorkspaceCommand groups the workspace registry subcommands.
func newWorkspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage registered workspaces",
		Long:    `Register git repositories as workspaces so tasks can refer to them by name.`,
	}

	cmd.AddCommand(
		newWorkspaceAddCommand(),
		newWorkspaceListCommand(),
		newWorkspaceRmCommand(),
	)

	return cmd
}

// newWorkspaceAddCommand creates the workspace add subcommand.
func newWorkspaceAddCommand() *cobra.Command {
	var opts struct {
		Name   string
		Branch string
	}

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a repository as a workspace",
		Long: `Register a git repository. The name defaults to the directory
basename.

Examples:
  squad workspace add ~/src/webapp
  squad workspace add ~/src/webapp --name web --branch main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(abs)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("path is not a directory: %s", abs)
			}

			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var ws rpc.WorkspaceInfo
			err = client.Call(cmd.Context(), "workspace.insert", map[string]any{
				"name":           opts.Name,
				"path":           abs,
				"default_branch": opts.Branch,
			}, &ws)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered workspace: %s (%s)\n", ws.Name, ws.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Workspace name (default: directory basename)")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Default branch")

	return cmd
}

// newWorkspaceListCommand creates the workspace list subcommand.
func newWorkspaceListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var workspaces []*rpc.WorkspaceInfo
			if err := client.Call(cmd.Context(), "workspace.list_all", nil, &workspaces); err != nil {
				return serverError(err)
			}

			if len(workspaces) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No workspaces registered.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "NAME\tBRANCH\tPATH")
			for _, ws := range workspaces {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", ws.Name, orDash(ws.DefaultBranch), ws.Path)
			}
			return nil
		},
	}
	return cmd
}

// newWorkspaceRmCommand creates the workspace rm subcommand.
func newWorkspaceRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a workspace from the registry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var removed bool
			if err := client.Call(cmd.Context(), "workspace.delete", map[string]any{"name": args[0]}, &removed); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed workspace: %s\n", args[0])
			return nil
		},
	}
	return cmd
}
