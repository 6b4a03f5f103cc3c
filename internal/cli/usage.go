package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newUsageCommand groups the LLM usage reporting subcommands. Bare
// 'squad usage' prints all-time totals.
func newUsageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show LLM token usage",
		Long: `Show token usage aggregated per provider and model.

Examples:
  # All-time totals
  squad usage

  # Last 6 hours
  squad usage recent --hours 6

  # Raw call log
  squad usage events -n 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var totals []*rpc.UsageTotalsInfo
			if err := client.Call(cmd.Context(), "usage.aggregate_totals", nil, &totals); err != nil {
				return serverError(err)
			}
			printUsageTotals(cmd.OutOrStdout(), totals)
			return nil
		},
	}

	cmd.AddCommand(newUsageRecentCommand(), newUsageEventsCommand())

	return cmd
}

// newUsageRecentCommand creates the usage recent subcommand.
func newUsageRecentCommand() *cobra.Command {
	var opts struct {
		Hours int
	}

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show usage over a recent window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var totals []*rpc.UsageTotalsInfo
			err = client.Call(cmd.Context(), "usage.aggregate_recent", map[string]any{
				"hours": opts.Hours,
			}, &totals)
			if err != nil {
				return serverError(err)
			}
			printUsageTotals(cmd.OutOrStdout(), totals)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Hours, "hours", 24, "Window size in hours")

	return cmd
}

// newUsageEventsCommand creates the usage events subcommand.
func newUsageEventsCommand() *cobra.Command {
	var opts struct {
		Limit int
	}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the raw LLM call log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var events []*rpc.UsageEventInfo
			err = client.Call(cmd.Context(), "usage.list_recent", map[string]any{
				"limit": opts.Limit,
			}, &events)
			if err != nil {
				return serverError(err)
			}

			if len(events) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No usage recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "TIME\tPROVIDER\tMODEL\tPROMPT\tCOMPLETION")
			for _, e := range events {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
					e.Created.Format(time.RFC3339),
					e.Provider,
					e.Model,
					e.PromptTokens,
					e.CompletionTokens,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 50, "Maximum number of events")

	return cmd
}

// printUsageTotals prints aggregation rows in TSV format.
func printUsageTotals(w io.Writer, totals []*rpc.UsageTotalsInfo) {
	if len(totals) == 0 {
		_, _ = fmt.Fprintln(w, "No usage recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "PROVIDER\tMODEL\tCALLS\tPROMPT\tCOMPLETION")
	for _, t := range totals {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			t.Provider,
			t.Model,
			t.Calls,
			t.PromptTokens,
			t.CompletionTokens,
		)
	}
}
