// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/runoshun/squad/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	InsertErr error
	UpdateErr error
	FindErr   error
}

// NewMockTaskRepository creates a new MockTaskRepository with an
// initialized map.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Tasks: make(map[string]*domain.Task)}
}

// Ensure MockTaskRepository implements domain.TaskRepository interface.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// FindBySlug retrieves a task by slug.
func (m *MockTaskRepository) FindBySlug(slug string) (*domain.Task, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	task, ok := m.Tasks[slug]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns tasks, excluding deleted and optionally archived ones.
func (m *MockTaskRepository) List(includeArchived bool) ([]*domain.Task, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var tasks []*domain.Task
	for _, t := range m.Tasks {
		if t.Status == domain.TaskDeleted {
			continue
		}
		if t.Status == domain.TaskArchived && !includeArchived {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Slug < tasks[j].Slug })
	return tasks, nil
}

// Insert stores a task, rejecting duplicate slugs.
func (m *MockTaskRepository) Insert(task *domain.Task) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if _, exists := m.Tasks[task.Slug]; exists {
		return domain.ErrDuplicateSlug
	}
	m.Tasks[task.Slug] = task
	return nil
}

// Update overwrites an existing task.
func (m *MockTaskRepository) Update(task *domain.Task) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Tasks[task.Slug] = task
	return nil
}

// UpdateStatus sets the status and returns the updated task.
func (m *MockTaskRepository) UpdateStatus(slug string, status domain.TaskStatus) (*domain.Task, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	task, ok := m.Tasks[slug]
	if !ok {
		return nil, nil
	}
	task.Status = status
	return task, nil
}

// FindDependents returns tasks listing slug in their depends_on.
func (m *MockTaskRepository) FindDependents(slug string) ([]*domain.Task, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var out []*domain.Task
	for _, t := range m.Tasks {
		if t.DependsOnSlug(slug) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindReady returns active tasks whose dependencies are all archived.
func (m *MockTaskRepository) FindReady() ([]*domain.Task, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var out []*domain.Task
	for _, t := range m.Tasks {
		if t.Status != domain.TaskActive {
			continue
		}
		ready := true
		for _, dep := range t.DependsOn {
			d, ok := m.Tasks[dep]
			if !ok || d.Status != domain.TaskArchived {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockSessionRepository is a test double for domain.SessionRepository.
// Fields are ordered to minimize memory padding.
type MockSessionRepository struct {
	Sessions  map[string]*domain.Session
	InsertErr error
	UpdateErr error
	FindErr   error
}

// NewMockSessionRepository creates a new MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]*domain.Session)}
}

// Ensure MockSessionRepository implements domain.SessionRepository.
var _ domain.SessionRepository = (*MockSessionRepository)(nil)

// FindByID retrieves a session by id.
func (m *MockSessionRepository) FindByID(id string) (*domain.Session, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	s, ok := m.Sessions[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

// List returns all sessions, newest first.
func (m *MockSessionRepository) List() ([]*domain.Session, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var sessions []*domain.Session
	for _, s := range m.Sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Created.After(sessions[j].Created)
	})
	return sessions, nil
}

// ListByTask returns the sessions owned by a task.
func (m *MockSessionRepository) ListByTask(taskSlug string) ([]*domain.Session, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	var out []*domain.Session
	for _, s := range all {
		if s.TaskSlug == taskSlug {
			out = append(out, s)
		}
	}
	return out, nil
}

// Insert stores a session.
func (m *MockSessionRepository) Insert(session *domain.Session) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Sessions[session.ID] = session
	return nil
}

// Update overwrites an existing session.
func (m *MockSessionRepository) Update(session *domain.Session) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Sessions[session.ID] = session
	return nil
}

// UpdateLifecycle sets the lifecycle and returns the updated session.
func (m *MockSessionRepository) UpdateLifecycle(id string, lifecycle domain.Lifecycle) (*domain.Session, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	s, ok := m.Sessions[id]
	if !ok {
		return nil, nil
	}
	s.Lifecycle = lifecycle
	return s, nil
}

// MockMergeRecordRepository is a test double for
// domain.MergeRecordRepository.
type MockMergeRecordRepository struct {
	Records   []*domain.MergeRecord
	InsertErr error
}

// Ensure the mock implements the interface.
var _ domain.MergeRecordRepository = (*MockMergeRecordRepository)(nil)

// Insert stores a merge record.
func (m *MockMergeRecordRepository) Insert(record *domain.MergeRecord) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Records = append(m.Records, record)
	return nil
}

// FindBySession returns the most recent record for a session.
func (m *MockMergeRecordRepository) FindBySession(sessionID string) (*domain.MergeRecord, error) {
	for i := len(m.Records) - 1; i >= 0; i-- {
		if m.Records[i].SessionID == sessionID {
			return m.Records[i], nil
		}
	}
	return nil, nil
}

// MarkReverted flags the session's record as reverted.
func (m *MockMergeRecordRepository) MarkReverted(sessionID, revertSHA string) error {
	for i := len(m.Records) - 1; i >= 0; i-- {
		if m.Records[i].SessionID == sessionID {
			m.Records[i].Reverted = true
			m.Records[i].RevertCommitSHA = revertSHA
			return nil
		}
	}
	return domain.ErrNoMergeRecord
}

// MockMemoryRepository is a test double for domain.MemoryRepository.
type MockMemoryRepository struct {
	Entries   []*domain.MemoryEntry
	InsertErr error
	NextID    int
}

// Ensure the mock implements the interface.
var _ domain.MemoryRepository = (*MockMemoryRepository)(nil)

// Insert stores an entry and assigns a sequential id.
func (m *MockMemoryRepository) Insert(entry *domain.MemoryEntry) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.NextID++
	entry.ID = "mem-" + time.Now().Format("150405") + "-" + string(rune('a'+m.NextID%26))
	m.Entries = append(m.Entries, entry)
	return nil
}

// List returns entries, newest first, optionally filtered by task.
func (m *MockMemoryRepository) List(taskSlug string) ([]*domain.MemoryEntry, error) {
	var out []*domain.MemoryEntry
	for i := len(m.Entries) - 1; i >= 0; i-- {
		e := m.Entries[i]
		if taskSlug != "" && e.TaskSlug != taskSlug {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ListForTask returns the newest limit task-scoped entries.
func (m *MockMemoryRepository) ListForTask(taskSlug string, limit int) ([]*domain.MemoryEntry, error) {
	var out []*domain.MemoryEntry
	for i := len(m.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.Entries[i]
		if e.Scope == domain.ScopeTask && e.TaskSlug == taskSlug {
			out = append(out, e)
		}
	}
	return out, nil
}

// Search returns entries whose key or content contains the query.
func (m *MockMemoryRepository) Search(query string) ([]*domain.MemoryEntry, error) {
	q := strings.ToLower(query)
	var out []*domain.MemoryEntry
	for i := len(m.Entries) - 1; i >= 0; i-- {
		e := m.Entries[i]
		if strings.Contains(strings.ToLower(e.Key), q) || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Delete removes an entry by id.
func (m *MockMemoryRepository) Delete(id string) error {
	for i, e := range m.Entries {
		if e.ID == id {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockUsageRepository is a test double for domain.UsageRepository.
type MockUsageRepository struct {
	Events    []*domain.UsageEvent
	InsertErr error
}

// Ensure the mock implements the interface.
var _ domain.UsageRepository = (*MockUsageRepository)(nil)

// Insert stores an event.
func (m *MockUsageRepository) Insert(event *domain.UsageEvent) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Events = append(m.Events, event)
	return nil
}

// ListRecent returns the newest limit events.
func (m *MockUsageRepository) ListRecent(limit int) ([]*domain.UsageEvent, error) {
	var out []*domain.UsageEvent
	for i := len(m.Events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Events[i])
	}
	return out, nil
}

// AggregateSince sums events created at or after cutoff.
func (m *MockUsageRepository) AggregateSince(cutoff time.Time) ([]domain.UsageTotals, error) {
	return aggregate(m.Events, func(e *domain.UsageEvent) bool {
		return !e.Created.Before(cutoff)
	}), nil
}

// AggregateTotals sums all events.
func (m *MockUsageRepository) AggregateTotals() ([]domain.UsageTotals, error) {
	return aggregate(m.Events, func(*domain.UsageEvent) bool { return true }), nil
}

func aggregate(events []*domain.UsageEvent, keep func(*domain.UsageEvent) bool) []domain.UsageTotals {
	type key struct{ provider, model string }
	byKey := make(map[key]*domain.UsageTotals)
	var order []key
	for _, e := range events {
		if !keep(e) {
			continue
		}
		k := key{e.Provider, e.Model}
		t, ok := byKey[k]
		if !ok {
			t = &domain.UsageTotals{Provider: e.Provider, Model: e.Model}
			byKey[k] = t
			order = append(order, k)
		}
		t.Calls++
		t.PromptTokens += e.PromptTokens
		t.CompletionTokens += e.CompletionTokens
	}
	out := make([]domain.UsageTotals, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}

// MockReportRepository is a test double for domain.ReportRepository.
type MockReportRepository struct {
	Reports   map[string]*domain.SessionReport
	UpsertErr error
}

// NewMockReportRepository creates a new MockReportRepository.
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{Reports: make(map[string]*domain.SessionReport)}
}

// Ensure the mock implements the interface.
var _ domain.ReportRepository = (*MockReportRepository)(nil)

// Upsert stores the report for a session.
func (m *MockReportRepository) Upsert(report *domain.SessionReport) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Reports[report.SessionID] = report
	return nil
}

// FindBySession retrieves a session's report.
func (m *MockReportRepository) FindBySession(sessionID string) (*domain.SessionReport, error) {
	r, ok := m.Reports[sessionID]
	if !ok {
		return nil, nil
	}
	return r, nil
}

// ListByTask retrieves reports for every session of a task.
func (m *MockReportRepository) ListByTask(taskSlug string) ([]*domain.SessionReport, error) {
	var out []*domain.SessionReport
	for _, r := range m.Reports {
		if r.TaskSlug == taskSlug {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

// MockEventRepository is a test double for domain.EventRepository.
type MockEventRepository struct {
	Events    []*domain.AgentEvent
	InsertErr error
	NextID    int
}

// Ensure the mock implements the interface.
var _ domain.EventRepository = (*MockEventRepository)(nil)

// Insert stores an event and assigns a sequential id.
func (m *MockEventRepository) Insert(event *domain.AgentEvent) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.NextID++
	event.ID = "evt-" + string(rune('a'+m.NextID%26))
	m.Events = append(m.Events, event)
	return nil
}

// ListUnacknowledged returns pending events, oldest first.
func (m *MockEventRepository) ListUnacknowledged() ([]*domain.AgentEvent, error) {
	var out []*domain.AgentEvent
	for _, e := range m.Events {
		if !e.Acknowledged {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListBySession returns a session's events, oldest first.
func (m *MockEventRepository) ListBySession(sessionID string) ([]*domain.AgentEvent, error) {
	var out []*domain.AgentEvent
	for _, e := range m.Events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Acknowledge marks an event as seen.
func (m *MockEventRepository) Acknowledge(id string) error {
	for _, e := range m.Events {
		if e.ID == id {
			e.Acknowledged = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockWorkspaceRepository is a test double for
// domain.WorkspaceRepository.
type MockWorkspaceRepository struct {
	Workspaces map[string]*domain.Workspace
	InsertErr  error
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository.
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{Workspaces: make(map[string]*domain.Workspace)}
}

// Ensure the mock implements the interface.
var _ domain.WorkspaceRepository = (*MockWorkspaceRepository)(nil)

// Insert registers a workspace.
func (m *MockWorkspaceRepository) Insert(ws *domain.Workspace) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Workspaces[ws.Name] = ws
	return nil
}

// FindByPath retrieves a workspace by path.
func (m *MockWorkspaceRepository) FindByPath(path string) (*domain.Workspace, error) {
	for _, ws := range m.Workspaces {
		if ws.Path == path {
			return ws, nil
		}
	}
	return nil, nil
}

// ListAll returns all registered workspaces.
func (m *MockWorkspaceRepository) ListAll() ([]*domain.Workspace, error) {
	var out []*domain.Workspace
	for _, ws := range m.Workspaces {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a workspace by name.
func (m *MockWorkspaceRepository) Delete(name string) error {
	delete(m.Workspaces, name)
	return nil
}

// MockConversationRepository is a test double for
// domain.ConversationRepository.
type MockConversationRepository struct {
	Conversations map[string]*domain.Conversation
	SaveErr       error
}

// NewMockConversationRepository creates a new MockConversationRepository.
func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{Conversations: make(map[string]*domain.Conversation)}
}

// Ensure the mock implements the interface.
var _ domain.ConversationRepository = (*MockConversationRepository)(nil)

// Load retrieves a conversation by key.
func (m *MockConversationRepository) Load(key string) (*domain.Conversation, error) {
	c, ok := m.Conversations[key]
	if !ok {
		return nil, nil
	}
	return c, nil
}

// Save persists a conversation.
func (m *MockConversationRepository) Save(conversation *domain.Conversation) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Conversations[conversation.Key] = conversation
	return nil
}

// ListKeys returns every stored conversation key.
func (m *MockConversationRepository) ListKeys() ([]string, error) {
	keys := make([]string, 0, len(m.Conversations))
	for k := range m.Conversations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// MockSubprocessManager is a test double for domain.SubprocessManager.
// Fields are ordered to minimize memory padding.
type MockSubprocessManager struct {
	StopErr       error
	CaptureErr    error
	SendErr       error
	CaptureVal    string
	SentText      string
	SpawnedName   string
	SpawnedSpec   domain.CommandSpec
	SpawnRes      domain.SpawnResult
	CaptureLines  int
	AliveVal      bool
	PauseVal      bool
	ResumeVal     bool
	SendOK        bool
	SpawnCalled   bool
	StopCalled    bool
	PauseCalled   bool
	ResumeCalled  bool
}

// NewMockSubprocessManager creates a mock reporting a successful tmux
// spawn by default.
func NewMockSubprocessManager() *MockSubprocessManager {
	return &MockSubprocessManager{
		SpawnRes: domain.SpawnResult{
			Success: true,
			Attachment: domain.Attachment{
				TmuxSession: "sq-test",
				TmuxWindow:  "main",
				PaneID:      "%1",
				PID:         4242,
			},
		},
		AliveVal:  true,
		PauseVal:  true,
		ResumeVal: true,
		SendOK:    true,
	}
}

// Ensure the mock implements the interface.
var _ domain.SubprocessManager = (*MockSubprocessManager)(nil)

// Spawn records the call and returns the configured result.
func (m *MockSubprocessManager) Spawn(_ context.Context, name string, spec domain.CommandSpec) domain.SpawnResult {
	m.SpawnCalled = true
	m.SpawnedName = name
	m.SpawnedSpec = spec
	return m.SpawnRes
}

// Stop records the call and returns the configured error.
func (m *MockSubprocessManager) Stop(_ context.Context, _ domain.Attachment) error {
	m.StopCalled = true
	return m.StopErr
}

// Pause records the call and returns the configured value.
func (m *MockSubprocessManager) Pause(_ domain.Attachment) bool {
	m.PauseCalled = true
	return m.PauseVal
}

// Resume records the call and returns the configured value.
func (m *MockSubprocessManager) Resume(_ domain.Attachment) bool {
	m.ResumeCalled = true
	return m.ResumeVal
}

// IsAlive returns the configured value.
func (m *MockSubprocessManager) IsAlive(_ int) bool {
	return m.AliveVal
}

// CaptureOutput returns the configured output or error.
func (m *MockSubprocessManager) CaptureOutput(_ context.Context, att domain.Attachment, lines int) (string, error) {
	m.CaptureLines = lines
	if !att.HasPane() {
		return "", nil
	}
	if m.CaptureErr != nil {
		return "", m.CaptureErr
	}
	return m.CaptureVal, nil
}

// SendKeys records the text and returns the configured values.
func (m *MockSubprocessManager) SendKeys(_ context.Context, att domain.Attachment, text string) (bool, error) {
	if !att.HasPane() {
		return false, nil
	}
	m.SentText = text
	if m.SendErr != nil {
		return false, m.SendErr
	}
	return m.SendOK, nil
}

// MockWorktreeManager is a test double for domain.WorktreeManager.
// Fields are ordered to minimize memory padding.
type MockWorktreeManager struct {
	CreateErr     error
	RemoveErr     error
	CreatePath    string
	CreatedBranch string
	RemovedPath   string
	Worktrees     []domain.WorktreeInfo
	CreateCalled  bool
	RemoveCalled  bool
}

// NewMockWorktreeManager creates a new MockWorktreeManager.
func NewMockWorktreeManager() *MockWorktreeManager {
	return &MockWorktreeManager{CreatePath: "/tmp/worktree"}
}

// Ensure the mock implements the interface.
var _ domain.WorktreeManager = (*MockWorktreeManager)(nil)

// Create records the call and returns the configured path or error.
func (m *MockWorktreeManager) Create(_, _, branch string) (string, error) {
	m.CreateCalled = true
	m.CreatedBranch = branch
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.CreatePath, nil
}

// Remove records the call and returns the configured error.
func (m *MockWorktreeManager) Remove(_, worktreePath string) error {
	m.RemoveCalled = true
	m.RemovedPath = worktreePath
	return m.RemoveErr
}

// List returns the configured worktrees.
func (m *MockWorktreeManager) List(_ string) ([]domain.WorktreeInfo, error) {
	return m.Worktrees, nil
}

// MockGit is a test double for domain.Git.
// Fields are ordered to minimize memory padding.
type MockGit struct {
	BranchErr     error
	DiffErr       error
	MergeErr      error
	RevertErr     error
	NumstatErr    error
	ChangedByDir  map[string][]string
	Branch        string
	HeadSHAVal    string
	DiffVal       string
	NumstatVal    string
	MergeSHA      string
	RevertSHA     string
	MergedBranch  string
	MergedInto    string
	RevertedSHA   string
	RevertedIn    string
	ChangedVal    []string
	IsRepoVal     bool
	BranchExist   bool
	MergeCalled   bool
	RevertCalled  bool
}

// NewMockGit creates a mock describing a healthy repository.
func NewMockGit() *MockGit {
	return &MockGit{
		IsRepoVal:  true,
		Branch:     "main",
		HeadSHAVal: "abc123",
		MergeSHA:   "merge456",
		RevertSHA:  "revert789",
	}
}

// Ensure MockGit implements domain.Git interface.
var _ domain.Git = (*MockGit)(nil)

// IsRepo returns the configured value.
func (m *MockGit) IsRepo(_ string) bool { return m.IsRepoVal }

// CurrentBranch returns the configured branch name or error.
func (m *MockGit) CurrentBranch(_ string) (string, error) {
	if m.BranchErr != nil {
		return "", m.BranchErr
	}
	return m.Branch, nil
}

// HeadSHA returns the configured sha.
func (m *MockGit) HeadSHA(_ string) (string, error) {
	return m.HeadSHAVal, nil
}

// BranchExists returns the configured value.
func (m *MockGit) BranchExists(_, _ string) (bool, error) {
	return m.BranchExist, nil
}

// Diff returns the configured diff or error.
func (m *MockGit) Diff(_ string) (string, error) {
	if m.DiffErr != nil {
		return "", m.DiffErr
	}
	return m.DiffVal, nil
}

// DiffNumstat returns the configured numstat output or error.
func (m *MockGit) DiffNumstat(_ string) (string, error) {
	if m.NumstatErr != nil {
		return "", m.NumstatErr
	}
	if m.DiffErr != nil {
		return "", m.DiffErr
	}
	return m.NumstatVal, nil
}

// ChangedFiles returns the per-dir paths when configured, else the
// shared default.
func (m *MockGit) ChangedFiles(dir string) ([]string, error) {
	if m.DiffErr != nil {
		return nil, m.DiffErr
	}
	if files, ok := m.ChangedByDir[dir]; ok {
		return files, nil
	}
	return m.ChangedVal, nil
}

// Merge records the call and returns the configured sha or error.
func (m *MockGit) Merge(dir, branch string) (string, error) {
	m.MergeCalled = true
	m.MergedInto = dir
	m.MergedBranch = branch
	if m.MergeErr != nil {
		return "", m.MergeErr
	}
	return m.MergeSHA, nil
}

// Revert records the call and returns the configured sha or error.
func (m *MockGit) Revert(dir, sha string) (string, error) {
	m.RevertCalled = true
	m.RevertedIn = dir
	m.RevertedSHA = sha
	if m.RevertErr != nil {
		return "", m.RevertErr
	}
	return m.RevertSHA, nil
}

// MockCommandExecutor is a test double for domain.CommandExecutor.
// Fields are ordered to minimize memory padding.
type MockCommandExecutor struct {
	ExecuteErr  error
	StartErr    error
	Output      []byte
	LastCmd     domain.CommandSpec
	StartPid    int
	ExecCalled  bool
	StartCalled bool
}

// Ensure the mock implements the interface.
var _ domain.CommandExecutor = (*MockCommandExecutor)(nil)

// Execute records the call and returns the configured output or error.
func (m *MockCommandExecutor) Execute(cmd domain.CommandSpec) ([]byte, error) {
	m.ExecCalled = true
	m.LastCmd = cmd
	return m.Output, m.ExecuteErr
}

// ExecuteCombined records the call and returns the configured output
// or error.
func (m *MockCommandExecutor) ExecuteCombined(_ context.Context, cmd domain.CommandSpec) ([]byte, error) {
	m.ExecCalled = true
	m.LastCmd = cmd
	return m.Output, m.ExecuteErr
}

// Start records the call and returns the configured pid or error.
func (m *MockCommandExecutor) Start(cmd domain.CommandSpec) (int, error) {
	m.StartCalled = true
	m.LastCmd = cmd
	if m.StartErr != nil {
		return 0, m.StartErr
	}
	if m.StartPid == 0 {
		return 4242, nil
	}
	return m.StartPid, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockPlaybookLibrary is a test double for domain.PlaybookLibrary.
type MockPlaybookLibrary struct {
	Playbooks []domain.Playbook
	ListErr   error
}

// Ensure the mock implements the interface.
var _ domain.PlaybookLibrary = (*MockPlaybookLibrary)(nil)

// List returns the configured playbooks or error.
func (m *MockPlaybookLibrary) List() ([]domain.Playbook, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Playbooks, nil
}

// Get returns the named playbook, or nil when absent.
func (m *MockPlaybookLibrary) Get(name string) (*domain.Playbook, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	for i := range m.Playbooks {
		if m.Playbooks[i].Name == name {
			return &m.Playbooks[i], nil
		}
	}
	return nil, nil
}

// MockNotifier is a test double for domain.Notifier.
type MockNotifier struct {
	SendErr   error
	Recipient string
	Text      string
	Sent      bool
}

// Ensure the mock implements the interface.
var _ domain.Notifier = (*MockNotifier)(nil)

// SendNotification records the call and returns the configured error.
func (m *MockNotifier) SendNotification(_ context.Context, recipient, text string) error {
	m.Sent = true
	m.Recipient = recipient
	m.Text = text
	return m.SendErr
}
