// Package app provides the dependency injection container for the
// application.
package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/runoshun/squad/internal/coordinator"
	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/infra/config"
	"github.com/runoshun/squad/internal/infra/executor"
	"github.com/runoshun/squad/internal/infra/git"
	"github.com/runoshun/squad/internal/infra/jsonstore"
	"github.com/runoshun/squad/internal/infra/llm"
	"github.com/runoshun/squad/internal/infra/logging"
	"github.com/runoshun/squad/internal/infra/notify"
	"github.com/runoshun/squad/internal/infra/playbook"
	"github.com/runoshun/squad/internal/infra/proc"
	"github.com/runoshun/squad/internal/infra/subproc"
	"github.com/runoshun/squad/internal/infra/tmux"
	"github.com/runoshun/squad/internal/infra/worktree"
	"github.com/runoshun/squad/internal/usecase"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// Config holds the application's resolved paths.
type Config struct {
	DataDir     string // State file, log, and tmux socket live here
	ConfigDir   string // Global config.toml and playbooks
	StorePath   string // Path to state.json
	SocketPath  string // Control socket the RPC server binds
	TmuxSocket  string // Dedicated tmux server socket
	PlaybookDir string // Playbook YAML directory
}

// newConfig resolves the standard paths, honoring the socket override
// from the loaded settings.
func newConfig(settings *domain.Config) Config {
	dataDir := domain.DataDir()
	configDir := domain.ConfigDir()
	socketPath := settings.Server.SocketPath
	if socketPath == "" {
		socketPath = domain.DefaultSocketPath()
	}
	return Config{
		DataDir:     dataDir,
		ConfigDir:   configDir,
		StorePath:   domain.StorePath(dataDir),
		SocketPath:  socketPath,
		TmuxSocket:  domain.TmuxSocketPath(dataDir),
		PlaybookDir: domain.PlaybookDir(configDir),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for
// use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskRepository
	Sessions      domain.SessionRepository
	Merges        domain.MergeRecordRepository
	Memory        domain.MemoryRepository
	Usage         domain.UsageRepository
	Reports       domain.ReportRepository
	Events        domain.EventRepository
	Workspaces    domain.WorkspaceRepository
	Conversations domain.ConversationRepository

	Clock        domain.Clock
	Git          domain.Git
	Worktrees    domain.WorktreeManager
	Subprocesses domain.SubprocessManager
	Executor     domain.CommandExecutor
	ConfigLoader domain.ConfigLoader
	Playbooks    domain.PlaybookLibrary
	Notifier     domain.Notifier
	Provider     llm.Provider

	// Pointer fields
	Store      *jsonstore.Store
	Locks      *shared.KeyedLocks
	Deadlines  *coordinator.DeadlineTable
	Background *coordinator.Registry
	Engine     *coordinator.Engine
	Watchdog   *coordinator.Watchdog
	Logger     *slog.Logger
	LogCloser  io.Closer

	// Configuration
	Settings *domain.Config
	Config   Config
}

// New creates a fully wired Container for the server process.
func New() (*Container, error) {
	configLoader := config.NewLoader("")
	settings, err := configLoader.Load()
	if err != nil {
		return nil, err
	}
	cfg := newConfig(settings)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, logCloser := logging.New(cfg.DataDir, logging.ParseLevel(settings.Log.Level))

	store := jsonstore.New(cfg.StorePath)
	if err := store.Initialize(); err != nil {
		logCloser.Close()
		return nil, err
	}

	execClient := executor.NewClient()
	mux := tmux.NewClient(cfg.TmuxSocket)
	subprocesses := subproc.NewManager(mux, proc.NewSignaler(), execClient, settings.Tmux.SessionPrefix, settings.Tmux.Enabled)
	provider := llm.BuildChain(settings, nil, os.Getenv, logger)

	c := &Container{
		Tasks:         store.Tasks(),
		Sessions:      store.Sessions(),
		Merges:        store.Merges(),
		Memory:        store.Memory(),
		Usage:         store.Usage(),
		Reports:       store.Reports(),
		Events:        store.Events(),
		Workspaces:    store.Workspaces(),
		Conversations: store.Conversations(),
		Clock:         domain.RealClock{},
		Git:           git.NewClient(),
		Worktrees:     worktree.NewClient(),
		Subprocesses:  subprocesses,
		Executor:      execClient,
		ConfigLoader:  configLoader,
		Playbooks:     playbook.NewLibrary(cfg.PlaybookDir),
		Notifier:      notify.NewCommandNotifier(execClient, settings.Notify.Command, logger),
		Provider:      provider,
		Store:         store,
		Locks:         shared.NewKeyedLocks(),
		Deadlines:     coordinator.NewDeadlineTable(),
		Background:    coordinator.NewRegistry(),
		Logger:        logger,
		LogCloser:     logCloser,
		Settings:      settings,
		Config:        cfg,
	}

	c.Engine = coordinator.NewEngine(provider, c.Conversations, c.toolContext(), settings.Coordinator, c.Clock, logger)
	c.Watchdog = coordinator.NewWatchdog(
		c.Sessions,
		c.Subprocesses,
		c.Events,
		c.StopSessionUseCase(),
		c.Notifier,
		c.Deadlines,
		settings.Watchdog,
		settings.Notify.Recipient,
		c.Clock,
		logger,
	)
	return c, nil
}

// Close releases resources the container owns.
func (c *Container) Close() {
	if c.Background != nil {
		c.Background.CancelAll()
	}
	if c.LogCloser != nil {
		c.LogCloser.Close()
	}
}

// toolContext bundles the dependencies the coordinator tools dispatch
// to.
func (c *Container) toolContext() *coordinator.ToolContext {
	return &coordinator.ToolContext{
		CreateTask:     c.CreateTaskUseCase(),
		GetTask:        c.GetTaskUseCase(),
		ListTasks:      c.ListTasksUseCase(),
		ArchiveTask:    c.ArchiveTaskUseCase(),
		AddDependency:  c.AddDependencyUseCase(),
		ListReady:      c.ListReadyUseCase(),
		StartSession:   c.StartSessionUseCase(),
		StopSession:    c.StopSessionUseCase(),
		PauseSession:   c.PauseSessionUseCase(),
		ResumeSession:  c.ResumeSessionUseCase(),
		ArchiveSession: c.ArchiveSessionUseCase(),
		SessionOutput:  c.SessionOutputUseCase(),
		SendToSession:  c.SendToSessionUseCase(),
		CheckLiveness:  c.CheckLivenessUseCase(),
		SessionDiff:    c.SessionDiffUseCase(),
		RunInWorktree:  c.RunInWorktreeUseCase(),
		CheckConflicts: c.CheckConflictsUseCase(),
		MergeSession:   c.MergeSessionUseCase(),
		Rollback:       c.RollbackSessionUseCase(),
		Review:         c.ReviewSessionUseCase(),
		StoreMemory:    c.StoreMemoryUseCase(),
		Tasks:          c.Tasks,
		Sessions:       c.Sessions,
		Memory:         c.Memory,
		Usage:          c.Usage,
		Reports:        c.Reports,
		Events:         c.Events,
		Playbooks:      c.Playbooks,
		Deadlines:      c.Deadlines,
		Clock:          c.Clock,
		Logger:         c.Logger,
	}
}

// UseCase factory methods

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Tasks, c.Clock, c.Logger)
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Tasks, c.Sessions)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ArchiveTaskUseCase returns a new ArchiveTask use case.
func (c *Container) ArchiveTaskUseCase() *usecase.ArchiveTask {
	return usecase.NewArchiveTask(c.Tasks, c.Events, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Clock, c.Logger)
}

// AddDependencyUseCase returns a new AddDependency use case.
func (c *Container) AddDependencyUseCase() *usecase.AddDependency {
	return usecase.NewAddDependency(c.Tasks, c.Clock, c.Logger)
}

// ListReadyUseCase returns a new ListReady use case.
func (c *Container) ListReadyUseCase() *usecase.ListReady {
	return usecase.NewListReady(c.Tasks)
}

// StartSessionUseCase returns a new StartSession use case.
func (c *Container) StartSessionUseCase() *usecase.StartSession {
	return usecase.NewStartSession(c.Tasks, c.Sessions, c.Memory, c.Worktrees, c.Subprocesses, c.ConfigLoader, c.Clock, c.Logger)
}

// StopSessionUseCase returns a new StopSession use case.
func (c *Container) StopSessionUseCase() *usecase.StopSession {
	return usecase.NewStopSession(c.Sessions, c.Tasks, c.Subprocesses, c.Worktrees, c.Locks, c.Clock, c.Logger)
}

// PauseSessionUseCase returns a new PauseSession use case.
func (c *Container) PauseSessionUseCase() *usecase.PauseSession {
	return usecase.NewPauseSession(c.Sessions, c.Subprocesses, c.Locks, c.Clock, c.Logger)
}

// ResumeSessionUseCase returns a new ResumeSession use case.
func (c *Container) ResumeSessionUseCase() *usecase.ResumeSession {
	return usecase.NewResumeSession(c.Sessions, c.Subprocesses, c.Locks, c.Clock, c.Logger)
}

// ArchiveSessionUseCase returns a new ArchiveSession use case.
func (c *Container) ArchiveSessionUseCase() *usecase.ArchiveSession {
	return usecase.NewArchiveSession(c.Sessions, c.Tasks, c.Subprocesses, c.Worktrees, c.Locks, c.Clock, c.Logger)
}

// SessionOutputUseCase returns a new GetSessionOutput use case.
func (c *Container) SessionOutputUseCase() *usecase.GetSessionOutput {
	return usecase.NewGetSessionOutput(c.Sessions, c.Subprocesses)
}

// SendToSessionUseCase returns a new SendToSession use case.
func (c *Container) SendToSessionUseCase() *usecase.SendToSession {
	return usecase.NewSendToSession(c.Sessions, c.Subprocesses)
}

// CheckLivenessUseCase returns a new CheckLiveness use case.
func (c *Container) CheckLivenessUseCase() *usecase.CheckLiveness {
	return usecase.NewCheckLiveness(c.Sessions, c.Subprocesses)
}

// SessionDiffUseCase returns a new GetSessionDiff use case.
func (c *Container) SessionDiffUseCase() *usecase.GetSessionDiff {
	return usecase.NewGetSessionDiff(c.Sessions, c.Git)
}

// RunInWorktreeUseCase returns a new RunInWorktree use case.
func (c *Container) RunInWorktreeUseCase() *usecase.RunInWorktree {
	return usecase.NewRunInWorktree(c.Sessions, c.Tasks, c.Executor, c.Logger)
}

// CheckConflictsUseCase returns a new CheckConflicts use case.
func (c *Container) CheckConflictsUseCase() *usecase.CheckConflicts {
	return usecase.NewCheckConflicts(c.Sessions, c.Git)
}

// MergeSessionUseCase returns a new MergeSession use case.
func (c *Container) MergeSessionUseCase() *usecase.MergeSession {
	return usecase.NewMergeSession(c.Sessions, c.Tasks, c.Merges, c.Git, c.Clock, c.Logger)
}

// RollbackSessionUseCase returns a new RollbackSession use case.
func (c *Container) RollbackSessionUseCase() *usecase.RollbackSession {
	return usecase.NewRollbackSession(c.Tasks, c.Merges, c.Git, c.Logger)
}

// ReviewSessionUseCase returns a new ReviewSession use case.
func (c *Container) ReviewSessionUseCase() *usecase.ReviewSession {
	return usecase.NewReviewSession(c.Sessions, c.Tasks, c.Reports, c.Events, c.Git, c.Executor, c.ConfigLoader, c.StartSessionUseCase(), c.Clock, c.Logger)
}

// StoreMemoryUseCase returns a new StoreMemory use case.
func (c *Container) StoreMemoryUseCase() *usecase.StoreMemory {
	return usecase.NewStoreMemory(c.Memory, c.Clock, c.Logger)
}
