// Package notify delivers operator notifications through an external
// command, typically a messaging bridge script.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// Ensure CommandNotifier implements domain.Notifier.
var _ domain.Notifier = (*CommandNotifier)(nil)

// CommandNotifier invokes the configured program as
// <program> <recipient> <text> for every notification.
type CommandNotifier struct {
	executor domain.CommandExecutor
	program  string
	logger   *slog.Logger
}

// NewCommandNotifier creates a notifier around the given program. An
// empty program yields a notifier that drops everything.
func NewCommandNotifier(executor domain.CommandExecutor, program string, logger *slog.Logger) *CommandNotifier {
	return &CommandNotifier{executor: executor, program: program, logger: logger}
}

// SendNotification runs the notify command. Delivery is best-effort;
// a failing command is reported to the caller but carries the
// command's combined output for the log.
func (n *CommandNotifier) SendNotification(ctx context.Context, recipient, text string) error {
	if n.program == "" {
		return nil
	}
	spec := domain.CommandSpec{
		Program: n.program,
		Args:    []string{recipient, text},
	}
	output, err := n.executor.ExecuteCombined(ctx, spec)
	if err != nil {
		n.logger.Warn("notify command failed",
			"program", n.program,
			"error", err,
			"output", strings.TrimSpace(string(output)))
		return fmt.Errorf("notify command: %w", err)
	}
	return nil
}
