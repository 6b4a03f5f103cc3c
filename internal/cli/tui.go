package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/squad/internal/tui"
	"github.com/spf13/cobra"
)

// launchDashboardFunc is a function variable for launching the
// dashboard, allowing it to be mocked in tests.
var launchDashboardFunc = launchDashboard

// newTUICommand creates the tui command for the live dashboard.
func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive dashboard",
		Long: `Launch a terminal dashboard that polls the server for tasks,
sessions, and events. Requires a running server.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchDashboardFunc()
		},
	}
	return cmd
}

// launchDashboard connects to the server and runs the dashboard
// program until quit.
func launchDashboard() error {
	client, err := connectFunc()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	model := tui.NewDashboard(client)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
