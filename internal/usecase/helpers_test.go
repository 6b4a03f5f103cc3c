package usecase

import (
	"log/slog"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func activeTask(slug, workspace string) *domain.Task {
	return &domain.Task{
		Slug:          slug,
		Title:         slug,
		Status:        domain.TaskActive,
		WorkspacePath: workspace,
	}
}

func runningSession(id, taskSlug, worktree string) *domain.Session {
	return &domain.Session{
		ID:           id,
		TaskSlug:     taskSlug,
		Kind:         domain.KindCodingAgent,
		Lifecycle:    domain.LifecycleRunning,
		AgentBackend: domain.BackendClaudeLocal,
		WorktreePath: worktree,
		Attachment: domain.Attachment{
			TmuxSession: "sq-claude-local-" + domain.ShortID(id),
			TmuxWindow:  "main",
			PaneID:      "%5",
			PID:         4242,
		},
	}
}
