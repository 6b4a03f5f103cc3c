package cli

import (
	"fmt"
	"time"

	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newPingCommand creates the ping command for probing the server.
func newPingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var reply string
			if err := client.Call(cmd.Context(), "server.ping", nil, &reply); err != nil {
				return serverError(err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	return cmd
}

// newStatusCommand creates the status command showing server counters.
func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server status",
		Long: `Show the server version, uptime, and task/session counters.

Examples:
  squad status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var status rpc.StatusInfo
			if err := client.Call(cmd.Context(), "server.status", nil, &status); err != nil {
				return serverError(err)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "Server: running")
			_, _ = fmt.Fprintf(w, "  Version: %s\n", status.Version)
			_, _ = fmt.Fprintf(w, "  Uptime: %s\n", formatUptime(status.UptimeSeconds))
			_, _ = fmt.Fprintf(w, "  Tasks: %d\n", status.Tasks)
			_, _ = fmt.Fprintf(w, "  Sessions: %d (%d running)\n", status.Sessions, status.RunningSessions)
			return nil
		},
	}
	return cmd
}

// formatUptime renders whole seconds as h/m/s.
func formatUptime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
