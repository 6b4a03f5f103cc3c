package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reviewSessionMocks bundles the doubles behind a ReviewSession under
// test. The composed StartSession shares the task and session repos so
// escalation sessions land where the assertions can see them.
type reviewSessionMocks struct {
	sessions *testutil.MockSessionRepository
	tasks    *testutil.MockTaskRepository
	reports  *testutil.MockReportRepository
	events   *testutil.MockEventRepository
	git      *testutil.MockGit
	executor *testutil.MockCommandExecutor
	config   *testutil.MockConfigLoader
	subproc  *testutil.MockSubprocessManager
}

func newReviewSession() (*ReviewSession, *reviewSessionMocks) {
	m := &reviewSessionMocks{
		sessions: testutil.NewMockSessionRepository(),
		tasks:    testutil.NewMockTaskRepository(),
		reports:  testutil.NewMockReportRepository(),
		events:   &testutil.MockEventRepository{},
		git:      testutil.NewMockGit(),
		executor: &testutil.MockCommandExecutor{},
		config:   testutil.NewMockConfigLoader(),
		subproc:  testutil.NewMockSubprocessManager(),
	}
	starter := NewStartSession(m.tasks, m.sessions, &testutil.MockMemoryRepository{},
		testutil.NewMockWorktreeManager(), m.subproc, m.config, testClock(), discardLogger())
	uc := NewReviewSession(m.sessions, m.tasks, m.reports, m.events, m.git,
		m.executor, m.config, starter, testClock(), discardLogger())
	return uc, m
}

func TestReviewSession_Execute_Success(t *testing.T) {
	// Setup: changes present, no test command configured
	uc, m := newReviewSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.git.NumstatVal = "12\t3\tmain.go\n5\t0\thandler.go\n"

	// Execute
	out, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "s1"})

	// Assert
	require.NoError(t, err)
	report := out.Report
	assert.Equal(t, domain.ReportSuccess, report.Status)
	assert.Equal(t, 2, report.FilesChanged)
	assert.Equal(t, 17, report.Insertions)
	assert.Equal(t, 3, report.Deletions)
	assert.Equal(t, "2 files changed (+17/-3)", report.Summary)
	assert.Zero(t, report.TestsPassed)
	assert.Empty(t, out.EscalatedTo)
	assert.Nil(t, out.EscalationSession)

	// Report persisted, no test command means no executor call
	assert.Contains(t, m.reports.Reports, "s1")
	assert.False(t, m.executor.ExecCalled)
}

func TestReviewSession_Execute_PartialWhenNoChanges(t *testing.T) {
	uc, m := newReviewSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.git.NumstatVal = ""

	out, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "s1"})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportPartial, out.Report.Status)
	assert.Equal(t, "0 files changed (+0/-0)", out.Report.Summary)
}

func TestReviewSession_Execute_FailedTestsEscalate(t *testing.T) {
	// Setup: junior session, failing pytest run
	uc, m := newReviewSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.git.NumstatVal = "3\t1\tmain.go\n"
	m.config.Config.Review.TestCommand = "pytest -q"
	m.executor.Output = []byte("===== 2 passed, 1 failed in 0.5s =====\n")

	// Execute
	out, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "s1"})

	// Assert: report marks the failure
	require.NoError(t, err)
	assert.Equal(t, domain.ReportFailed, out.Report.Status)
	assert.Equal(t, 2, out.Report.TestsPassed)
	assert.Equal(t, 1, out.Report.TestsFailed)
	assert.Contains(t, out.Report.Summary, "tests: 2 passed, 1 failed, 0 errors")
	assert.Contains(t, out.Report.OutputSnippet, "1 failed")

	// Test command ran in the worktree
	assert.Equal(t, "pytest", m.executor.LastCmd.Program)
	assert.Equal(t, []string{"-q"}, m.executor.LastCmd.Args)
	assert.Equal(t, "/wt/s1", m.executor.LastCmd.Dir)

	// Escalated one tier up with the failure in the prompt
	assert.Equal(t, domain.BackendOpenCode, out.EscalatedTo)
	require.NotNil(t, out.EscalationSession)
	assert.Equal(t, domain.BackendOpenCode, out.EscalationSession.AgentBackend)
	assert.Equal(t, "api", out.EscalationSession.TaskSlug)
	assert.Contains(t, out.EscalationSession.Prompt, "Previous claude-local session failed.")
	assert.Contains(t, out.EscalationSession.Prompt, "1 failed")

	require.Len(t, m.events.Events, 1)
	assert.Equal(t, domain.EventNeedsHelp, m.events.Events[0].Type)
	assert.Contains(t, m.events.Events[0].Message, "escalating to opencode")
}

func TestReviewSession_Execute_SeniorFailureDoesNotEscalate(t *testing.T) {
	// Setup: claude-code is the top tier, nowhere to go
	uc, m := newReviewSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	session := runningSession("s1", "api", "/wt/s1")
	session.AgentBackend = domain.BackendClaudeCode
	m.sessions.Sessions["s1"] = session
	m.git.NumstatVal = "3\t1\tmain.go\n"
	m.config.Config.Review.TestCommand = "go test ./..."
	m.executor.Output = []byte("--- FAIL: TestThing\n1 failed\n")

	// Execute
	out, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "s1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.ReportFailed, out.Report.Status)
	assert.Empty(t, out.EscalatedTo)
	assert.Nil(t, out.EscalationSession)
	assert.Empty(t, m.events.Events)
	assert.Len(t, m.sessions.Sessions, 1)
}

func TestReviewSession_Execute_NumstatFallback(t *testing.T) {
	// Setup: numstat unavailable, unified diff still counts
	uc, m := newReviewSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "/wt/s1")
	m.git.NumstatErr = assert.AnError
	m.git.DiffVal = "--- a/main.go\n+++ b/main.go\n@@ -1,2 +1,3 @@\n context\n+added\n-removed\n"

	// Execute
	out, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "s1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Report.FilesChanged)
	assert.Equal(t, 1, out.Report.Insertions)
	assert.Equal(t, 1, out.Report.Deletions)
	assert.Equal(t, domain.ReportSuccess, out.Report.Status)
}

func TestReviewSession_Execute_UsesWorkspaceWithoutWorktree(t *testing.T) {
	uc, m := newReviewSession()
	m.tasks.Tasks["api"] = activeTask("api", "/repos/api")
	m.sessions.Sessions["s1"] = runningSession("s1", "api", "")
	m.git.NumstatVal = "1\t1\tmain.go\n"
	m.config.Config.Review.TestCommand = "go test"
	m.executor.Output = []byte("ok\n")

	_, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "s1"})

	require.NoError(t, err)
	assert.Equal(t, "/repos/api", m.executor.LastCmd.Dir)
}

func TestReviewSession_Execute_NotFound(t *testing.T) {
	uc, _ := newReviewSession()

	_, err := uc.Execute(context.Background(), ReviewSessionInput{ID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
