package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// SendToSessionInput contains the parameters for sending text to a
// session. Fields are ordered to minimize memory padding.
type SendToSessionInput struct {
	ID   string
	Text string
}

// SendToSessionOutput reports whether the text reached a pane.
type SendToSessionOutput struct {
	Sent bool
}

// SendToSession is the use case for typing into a session's terminal.
type SendToSession struct {
	sessions domain.SessionRepository
	subproc  domain.SubprocessManager
}

// NewSendToSession creates a new SendToSession use case.
func NewSendToSession(sessions domain.SessionRepository, subproc domain.SubprocessManager) *SendToSession {
	return &SendToSession{sessions: sessions, subproc: subproc}
}

// Execute sends text followed by Enter. Sessions without a pane report
// Sent false, not an error.
func (uc *SendToSession) Execute(ctx context.Context, in SendToSessionInput) (*SendToSessionOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}

	sent, err := uc.subproc.SendKeys(ctx, session.Attachment, in.Text)
	if err != nil {
		return nil, fmt.Errorf("send keys: %w", err)
	}
	return &SendToSessionOutput{Sent: sent}, nil
}
