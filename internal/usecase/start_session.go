package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// StartSessionInput contains the parameters for starting a coding
// session. Fields are ordered to minimize memory padding.
type StartSessionInput struct {
	TaskSlug  string // Task the session works on (required)
	AgentType string // Explicit backend override (optional)
	Prompt    string // Initial instructions (optional)
	Model     string // Model override (optional)
}

// StartSessionOutput contains the result of starting a session. A
// spawn failure is reported in SpawnError with the session in the
// failed lifecycle; it is not an Execute error.
type StartSessionOutput struct {
	Session    *domain.Session
	SpawnError string
}

// StartSession is the use case for starting a coding agent session.
type StartSession struct {
	tasks        domain.TaskRepository
	sessions     domain.SessionRepository
	memory       domain.MemoryRepository
	worktrees    domain.WorktreeManager
	subproc      domain.SubprocessManager
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       *slog.Logger
}

// NewStartSession creates a new StartSession use case.
func NewStartSession(
	tasks domain.TaskRepository,
	sessions domain.SessionRepository,
	memory domain.MemoryRepository,
	worktrees domain.WorktreeManager,
	subproc domain.SubprocessManager,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
	logger *slog.Logger,
) *StartSession {
	return &StartSession{
		tasks:        tasks,
		sessions:     sessions,
		memory:       memory,
		worktrees:    worktrees,
		subproc:      subproc,
		configLoader: configLoader,
		clock:        clock,
		logger:       logger,
	}
}

// Execute starts a coding session for a task. Backend selection:
// explicit agent type, else the routing heuristic over the task's
// signals, else the configured default. Worktree isolation and memory
// context are best-effort; their failure never blocks the start.
func (uc *StartSession) Execute(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	task, err := uc.tasks.FindBySlug(in.TaskSlug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil || task.Status == domain.TaskDeleted {
		return nil, fmt.Errorf("task %q: %w", in.TaskSlug, domain.ErrNotFound)
	}

	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	backend, err := resolveBackend(in, task, cfg)
	if err != nil {
		return nil, err
	}

	id := domain.NewSessionID()
	short := domain.ShortID(id)
	branch := domain.SessionBranch(backend, short)

	// Worktree isolation is best-effort: clone failures fall back to
	// running in the main workspace.
	worktreePath := ""
	if task.WorkspacePath != "" {
		worktreePath, err = uc.worktrees.Create(task.WorkspacePath, short, branch)
		if err != nil {
			uc.logger.Warn("worktree creation failed, using main workspace",
				"task", task.Slug, "error", err)
			worktreePath = ""
		}
	}
	if worktreePath == "" {
		branch = ""
	}

	prompt := uc.withMemoryContext(task.Slug, in.Prompt)

	now := uc.clock.Now()
	session := &domain.Session{
		Created:      now,
		Updated:      now,
		ID:           id,
		TaskSlug:     task.Slug,
		Kind:         domain.KindCodingAgent,
		Lifecycle:    domain.LifecyclePending,
		AgentBackend: backend,
		Model:        in.Model,
		Prompt:       prompt,
		WorktreePath: worktreePath,
		BranchName:   branch,
	}
	if err := uc.sessions.Insert(session); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	dir := worktreePath
	if dir == "" {
		dir = task.WorkspacePath
	}
	spec := domain.StartCommand(backend, domain.StartParams{
		SessionID:     id,
		Prompt:        prompt,
		Model:         in.Model,
		WorkspacePath: dir,
		LocalBaseURL:  cfg.LocalProviderBaseURL(),
	})

	result := uc.subproc.Spawn(ctx, session.DisplayName(), spec)
	session.Updated = uc.clock.Now()
	if !result.Success {
		session.Lifecycle = domain.LifecycleFailed
		if err := uc.sessions.Update(session); err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
		uc.cleanupWorktree(task.WorkspacePath, worktreePath)
		uc.logger.Error("session spawn failed",
			"session", short, "backend", backend, "error", result.Error)
		return &StartSessionOutput{Session: session, SpawnError: result.Error}, nil
	}

	session.Attachment = result.Attachment
	session.Lifecycle = domain.LifecycleRunning
	if err := uc.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	uc.logger.Info("session started",
		"session", short, "task", task.Slug, "backend", backend, "pid", result.Attachment.PID)
	return &StartSessionOutput{Session: session}, nil
}

// resolveBackend picks the agent backend for a new session.
func resolveBackend(in StartSessionInput, task *domain.Task, cfg *domain.Config) (domain.Backend, error) {
	if in.AgentType != "" {
		backend := domain.Backend(in.AgentType)
		if !domain.IsKnownBackend(backend) {
			return "", fmt.Errorf("agent type %q: %w", in.AgentType, domain.ErrUnknownBackend)
		}
		return backend, nil
	}
	if backend := domain.RecommendBackend(in.Prompt, task.Tags, task.Complexity); backend != "" {
		return backend, nil
	}
	return cfg.DefaultAgent, nil
}

// withMemoryContext prepends stored task memory to the prompt.
func (uc *StartSession) withMemoryContext(taskSlug, prompt string) string {
	entries, err := uc.memory.ListForTask(taskSlug, shared.MemoryContextEntries)
	if err != nil {
		uc.logger.Warn("load memory context", "task", taskSlug, "error", err)
		return prompt
	}
	return shared.PrependContext(shared.BuildMemoryContext(entries), prompt)
}

func (uc *StartSession) cleanupWorktree(workspacePath, worktreePath string) {
	if worktreePath == "" {
		return
	}
	if err := uc.worktrees.Remove(workspacePath, worktreePath); err != nil {
		uc.logger.Warn("remove worktree", "path", worktreePath, "error", err)
	}
}
