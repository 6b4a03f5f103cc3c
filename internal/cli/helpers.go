package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/infra/config"
	"github.com/runoshun/squad/internal/rpc"
)

// caller is the part of the RPC client the commands use.
type caller interface {
	Call(ctx context.Context, method string, params, out any) error
	Close() error
}

// connectFunc is a function variable for opening the control socket,
// allowing tests to substitute a fake server.
var connectFunc = connect

// connect resolves the control socket path from config and returns a
// client bound to it. The connection itself is made lazily on the
// first call.
func connect() (caller, error) {
	return rpc.NewClient(controlSocketPath()), nil
}

// controlSocketPath returns the configured socket path, falling back
// to the default when config is absent or silent.
func controlSocketPath() string {
	cfg, err := config.NewLoader("").Load()
	if err != nil || cfg.Server.SocketPath == "" {
		return domain.DefaultSocketPath()
	}
	return cfg.Server.SocketPath
}

// serverError rewrites a connection failure into actionable guidance;
// anything else passes through untouched.
func serverError(err error) error {
	if errors.Is(err, domain.ErrServerNotRunning) {
		return errors.New("server not running (start it with 'squad serve')")
	}
	return err
}

// formatAge renders the distance between now and t compactly.
func formatAge(now, t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// orDash substitutes "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
