package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newEventsCommand groups the agent event subcommands. Bare
// 'squad events' lists what still needs attention.
func newEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show agent events needing attention",
		Long: `Agents and the watchdog raise events (needs-help, stalled,
completed). Unacknowledged events are the operator's inbox.

Examples:
  squad events
  squad events --session 0f3a9c...
  squad events ack evt-42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var events []*rpc.EventInfo
			if err := client.Call(cmd.Context(), "event.list_unacknowledged", nil, &events); err != nil {
				return serverError(err)
			}
			printEventList(cmd, events)
			return nil
		},
	}

	cmd.AddCommand(newEventsSessionCommand(), newEventsAckCommand())

	return cmd
}

// newEventsSessionCommand creates the events session subcommand.
func newEventsSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session <session-id>",
		Short: "Show all events for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var events []*rpc.EventInfo
			if err := client.Call(cmd.Context(), "event.list_by_session", sessionIDArg(args[0]), &events); err != nil {
				return serverError(err)
			}
			printEventList(cmd, events)
			return nil
		},
	}
	return cmd
}

// newEventsAckCommand creates the events ack subcommand.
func newEventsAckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ack <event-id>",
		Short: "Acknowledge an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var acked bool
			if err := client.Call(cmd.Context(), "event.acknowledge", map[string]any{"id": args[0]}, &acked); err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Acknowledged: %s\n", args[0])
			return nil
		},
	}
	return cmd
}

// printEventList prints events in TSV format.
func printEventList(cmd *cobra.Command, events []*rpc.EventInfo) {
	if len(events) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No events.")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tTIME\tTYPE\tSESSION\tMESSAGE")
	for _, e := range events {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Created.Format(time.RFC3339),
			e.Type,
			orDash(e.SessionID),
			truncate(e.Message, 60),
		)
	}
}
