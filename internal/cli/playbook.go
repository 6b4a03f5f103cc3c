package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/runoshun/squad/internal/domain"
	"github.com/spf13/cobra"
)

// newPlaybookCommand groups the playbook subcommands.
func newPlaybookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbook",
		Short: "Browse coordinator playbooks",
		Long:  `Playbooks are canned procedures the coordinator hands to agents, loaded from YAML files in the playbook directory.`,
	}

	cmd.AddCommand(newPlaybookListCommand(), newPlaybookShowCommand())

	return cmd
}

// newPlaybookListCommand creates the playbook list subcommand.
func newPlaybookListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available playbooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var playbooks []*domain.Playbook
			if err := client.Call(cmd.Context(), "playbook.list", nil, &playbooks); err != nil {
				return serverError(err)
			}

			if len(playbooks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No playbooks found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, p := range playbooks {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", p.Name, truncate(p.Description, 70))
			}
			return nil
		},
	}
	return cmd
}

// newPlaybookShowCommand creates the playbook show subcommand.
func newPlaybookShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a playbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var p *domain.Playbook
			if err := client.Call(cmd.Context(), "playbook.get", map[string]any{"name": args[0]}, &p); err != nil {
				return serverError(err)
			}
			if p == nil {
				return fmt.Errorf("playbook not found: %s", args[0])
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Playbook: %s\n", p.Name)
			if p.Description != "" {
				_, _ = fmt.Fprintf(w, "  %s\n", p.Description)
			}
			if len(p.Tags) > 0 {
				_, _ = fmt.Fprintf(w, "  Tags: %s\n", strings.Join(p.Tags, ", "))
			}
			if len(p.Steps) > 0 {
				_, _ = fmt.Fprintln(w, "\nSteps:")
				for i, step := range p.Steps {
					_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, step)
				}
			}
			if p.Prompt != "" {
				_, _ = fmt.Fprintf(w, "\n%s\n", p.Prompt)
			}
			return nil
		},
	}
	return cmd
}
