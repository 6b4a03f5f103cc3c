package coordinator

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

// ToolContext is the dependency bundle passed to every tool handler.
// It keeps handlers decoupled from the engine while giving them the
// use cases and repositories they dispatch to.
type ToolContext struct {
	CreateTask     *usecase.CreateTask
	GetTask        *usecase.GetTask
	ListTasks      *usecase.ListTasks
	ArchiveTask    *usecase.ArchiveTask
	AddDependency  *usecase.AddDependency
	ListReady      *usecase.ListReady
	StartSession   *usecase.StartSession
	StopSession    *usecase.StopSession
	PauseSession   *usecase.PauseSession
	ResumeSession  *usecase.ResumeSession
	ArchiveSession *usecase.ArchiveSession
	SessionOutput  *usecase.GetSessionOutput
	SendToSession  *usecase.SendToSession
	CheckLiveness  *usecase.CheckLiveness
	SessionDiff    *usecase.GetSessionDiff
	RunInWorktree  *usecase.RunInWorktree
	CheckConflicts *usecase.CheckConflicts
	MergeSession   *usecase.MergeSession
	Rollback       *usecase.RollbackSession
	Review         *usecase.ReviewSession
	StoreMemory    *usecase.StoreMemory

	// Read paths that need no use case go straight to the repositories.
	Tasks     domain.TaskRepository
	Sessions  domain.SessionRepository
	Memory    domain.MemoryRepository
	Usage     domain.UsageRepository
	Reports   domain.ReportRepository
	Events    domain.EventRepository
	Playbooks domain.PlaybookLibrary

	Deadlines *DeadlineTable
	Clock     domain.Clock
	Logger    *slog.Logger
}

// decodeArgs unmarshals raw tool arguments into dst. Absent arguments
// decode as the zero value so optional-only tools accept empty input.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("tool arguments: %w", err)
	}
	return nil
}

// findSession resolves a session id argument, treating absence as a
// handler error the model can read.
func findSession(tc *ToolContext, id string) (*domain.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	session, err := tc.Sessions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return session, nil
}
