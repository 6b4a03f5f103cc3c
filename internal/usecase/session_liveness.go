package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/squad/internal/domain"
)

// CheckLivenessInput contains the parameters for a liveness check.
type CheckLivenessInput struct {
	ID string
}

// CheckLivenessOutput reports whether the session's process is alive.
type CheckLivenessOutput struct {
	Alive bool
}

// CheckLiveness is the use case for probing a session's subprocess.
type CheckLiveness struct {
	sessions domain.SessionRepository
	subproc  domain.SubprocessManager
}

// NewCheckLiveness creates a new CheckLiveness use case.
func NewCheckLiveness(sessions domain.SessionRepository, subproc domain.SubprocessManager) *CheckLiveness {
	return &CheckLiveness{sessions: sessions, subproc: subproc}
}

// Execute checks the pane leader pid. Sessions that were never
// attached report not alive.
func (uc *CheckLiveness) Execute(_ context.Context, in CheckLivenessInput) (*CheckLivenessOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	if session.Attachment.PID <= 0 {
		return &CheckLivenessOutput{Alive: false}, nil
	}
	return &CheckLivenessOutput{Alive: uc.subproc.IsAlive(session.Attachment.PID)}, nil
}
