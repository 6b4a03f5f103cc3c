// Package cli provides the command-line interface for squad.
//
// Apart from serve, every command is a thin client: it dials the
// control socket, issues JSON-RPC calls, and renders the result. The
// server owns all state.
package cli

import (
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupServer      = "server"
	groupTask        = "task"
	groupSession     = "session"
	groupCoordinator = "coordinator"
)

// NewRootCommand creates the root command for squad.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "squad",
		Short: "Agent session orchestration",
		Long: `squad runs coding agents in isolated tmux sessions, one git
worktree per session, and coordinates them through a persistent
server. A task is the unit of work; sessions attach agents to tasks;
the coordinator plans and reviews on top.

Start the server with 'squad serve', then drive it from any terminal:

  squad task new "Fix login bug" --workspace ~/src/webapp
  squad session start fix-login-bug
  squad session review <session-id>
  squad ask "what is everyone working on?"`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupServer, Title: "Server Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSession, Title: "Session Management:"},
		&cobra.Group{ID: groupCoordinator, Title: "Coordinator:"},
	)

	serveCmd := newServeCommand(version)
	serveCmd.GroupID = groupServer

	pingCmd := newPingCommand()
	pingCmd.GroupID = groupServer

	statusCmd := newStatusCommand()
	statusCmd.GroupID = groupServer

	taskCmd := newTaskCommand()
	taskCmd.GroupID = groupTask

	memoryCmd := newMemoryCommand()
	memoryCmd.GroupID = groupTask

	workspaceCmd := newWorkspaceCommand()
	workspaceCmd.GroupID = groupTask

	sessionCmd := newSessionCommand()
	sessionCmd.GroupID = groupSession

	eventsCmd := newEventsCommand()
	eventsCmd.GroupID = groupSession

	usageCmd := newUsageCommand()
	usageCmd.GroupID = groupSession

	askCmd := newAskCommand()
	askCmd.GroupID = groupCoordinator

	chatCmd := newChatCommand()
	chatCmd.GroupID = groupCoordinator

	playbookCmd := newPlaybookCommand()
	playbookCmd.GroupID = groupCoordinator

	tuiCmd := newTUICommand()
	tuiCmd.GroupID = groupServer

	root.AddCommand(
		serveCmd,
		pingCmd,
		statusCmd,
		taskCmd,
		sessionCmd,
		memoryCmd,
		workspaceCmd,
		eventsCmd,
		usageCmd,
		askCmd,
		chatCmd,
		playbookCmd,
		tuiCmd,
	)

	return root
}
