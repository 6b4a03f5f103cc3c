package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newAskCommand creates the ask command for one-shot coordinator
// questions.
func newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the coordinator a one-shot question",
		Long: `Ask the coordinator a single question. The coordinator may call
tools (list tasks, read reports) to answer, but nothing is remembered
afterwards; use 'squad chat' for a persistent conversation.

Examples:
  squad ask "what is everyone working on?"
  squad ask "which tasks are blocked and why?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var out struct {
				Response string `json:"response"`
			}
			err = client.Call(cmd.Context(), "coordinator.ask", map[string]any{
				"question": args[0],
			}, &out)
			if err != nil {
				return serverError(err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Response)
			return nil
		},
	}
	return cmd
}

// newChatCommand creates the chat command for an interactive
// coordinator conversation.
func newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the coordinator",
		Long: `Open an interactive conversation with the coordinator. History is
kept server-side per channel, so a later 'squad chat' resumes where
this one left off.

Type 'quit' (or 'exit', or Ctrl+D) to leave.

Examples:
  squad chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connectFunc()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			in := cmd.InOrStdin()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "Coordinator chat (type 'quit' to exit)")

			scanner := bufio.NewScanner(in)
			for {
				_, _ = fmt.Fprint(w, "You> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				switch strings.ToLower(line) {
				case "quit", "exit", "q":
					return nil
				}

				var out struct {
					Response string `json:"response"`
				}
				err := client.Call(cmd.Context(), "coordinator.message", map[string]any{
					"message": line,
					"channel": "cli",
				}, &out)
				if err != nil {
					return serverError(err)
				}
				_, _ = fmt.Fprintf(w, "\nCoordinator: %s\n\n", out.Response)
			}
			return scanner.Err()
		},
	}
	return cmd
}
