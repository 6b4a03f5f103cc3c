package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// GetSessionOutputInput contains the parameters for capturing output.
// Fields are ordered to minimize memory padding.
type GetSessionOutputInput struct {
	ID    string
	Lines int // Scrollback lines to capture (0 = manager default)
}

// GetSessionOutputOutput contains the captured pane output.
type GetSessionOutputOutput struct {
	Output string
}

// GetSessionOutput is the use case for reading a session's recent
// terminal output.
type GetSessionOutput struct {
	sessions domain.SessionRepository
	subproc  domain.SubprocessManager
}

// NewGetSessionOutput creates a new GetSessionOutput use case.
func NewGetSessionOutput(sessions domain.SessionRepository, subproc domain.SubprocessManager) *GetSessionOutput {
	return &GetSessionOutput{sessions: sessions, subproc: subproc}
}

// Execute captures the session's pane scrollback. Sessions without a
// pane yield empty output, not an error.
func (uc *GetSessionOutput) Execute(ctx context.Context, in GetSessionOutputInput) (*GetSessionOutputOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}

	output, err := uc.subproc.CaptureOutput(ctx, session.Attachment, in.Lines)
	if err != nil {
		return nil, fmt.Errorf("capture output: %w", err)
	}
	return &GetSessionOutputOutput{Output: output}, nil
}
