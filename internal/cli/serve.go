package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/squad/internal/app"
	"github.com/runoshun/squad/internal/rpc"
	"github.com/spf13/cobra"
)

// newContainerFunc is a function variable for building the server
// container, allowing tests to substitute a mock-backed one.
var newContainerFunc = app.New

// newServeCommand creates the serve command that runs the server in
// the foreground.
func newServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestration server",
		Long: `Run the squad server in the foreground.

The server listens for JSON-RPC requests on a Unix socket, owns the
state store, and supervises agent sessions. All other squad commands
talk to it; they fail with "server not running" until it is up.

Stop it with Ctrl+C or SIGTERM; sessions keep running in tmux and are
picked up again on the next start.

Examples:
  # Run directly
  squad serve

  # Run under systemd
  ExecStart=/usr/local/bin/squad serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, version)
		},
	}
	return cmd
}

// runServer wires the container, serves RPC until a shutdown signal,
// then tears everything down in reverse order.
func runServer(cmd *cobra.Command, version string) error {
	c, err := newContainerFunc()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	started := c.Clock.Now()

	server := rpc.NewServer(c.Config.SocketPath, rpc.Methods(c, version, started), c.Logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Listening on %s (pid %d)\n", c.Config.SocketPath, os.Getpid())

	if c.Settings.Watchdog.Enabled {
		c.Background.Go(cmd.Context(), "watchdog", c.Watchdog.Run)
		_, _ = fmt.Fprintln(out, "Watchdog running")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	_, _ = fmt.Fprintln(out, "Shutting down")
	server.Stop()
	return nil
}
