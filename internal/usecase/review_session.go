package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// Review limits.
const (
	testCommandTimeout = 60 * time.Second
	outputSnippetCap   = 1000
)

// ReviewSessionInput contains the parameters for reviewing a session.
type ReviewSessionInput struct {
	ID string
}

// ReviewSessionOutput contains the stored report and, for failed work
// below the senior tier, the automatically started follow-up session.
type ReviewSessionOutput struct {
	Report            *domain.SessionReport
	EscalatedTo       domain.Backend
	EscalationSession *domain.Session
}

// ReviewSession is the use case for judging a session's work: diff
// stats, an optional test run, a stored report, and escalation one
// tier up when the work failed.
type ReviewSession struct {
	sessions     domain.SessionRepository
	tasks        domain.TaskRepository
	reports      domain.ReportRepository
	events       domain.EventRepository
	git          domain.Git
	executor     domain.CommandExecutor
	configLoader domain.ConfigLoader
	starter      *StartSession
	clock        domain.Clock
	logger       *slog.Logger
}

// NewReviewSession creates a new ReviewSession use case.
func NewReviewSession(
	sessions domain.SessionRepository,
	tasks domain.TaskRepository,
	reports domain.ReportRepository,
	events domain.EventRepository,
	git domain.Git,
	executor domain.CommandExecutor,
	configLoader domain.ConfigLoader,
	starter *StartSession,
	clock domain.Clock,
	logger *slog.Logger,
) *ReviewSession {
	return &ReviewSession{
		sessions:     sessions,
		tasks:        tasks,
		reports:      reports,
		events:       events,
		git:          git,
		executor:     executor,
		configLoader: configLoader,
		starter:      starter,
		clock:        clock,
		logger:       logger,
	}
}

// Execute reviews the session. Classification: failing or erroring
// tests → failed; no changed files → partial; else success. A failed
// review below the senior tier starts a session one tier up with the
// failure summary in its prompt.
func (uc *ReviewSession) Execute(ctx context.Context, in ReviewSessionInput) (*ReviewSessionOutput, error) {
	session, err := uc.sessions.FindByID(in.ID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %q: %w", in.ID, domain.ErrNotFound)
	}
	task, err := uc.tasks.FindBySlug(session.TaskSlug)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %q: %w", session.TaskSlug, domain.ErrNotFound)
	}

	dir := session.WorktreePath
	if dir == "" {
		dir = task.WorkspacePath
	}

	stats := uc.diffStats(dir)
	counts, snippet := uc.runTests(ctx, dir)

	status := classify(stats, counts)
	summary := summarize(stats, counts)

	report := &domain.SessionReport{
		Created:       uc.clock.Now(),
		SessionID:     session.ID,
		TaskSlug:      session.TaskSlug,
		Status:        status,
		Summary:       summary,
		OutputSnippet: snippet,
		FilesChanged:  stats.FilesChanged,
		Insertions:    stats.Insertions,
		Deletions:     stats.Deletions,
		TestsPassed:   counts.Passed,
		TestsFailed:   counts.Failed,
		TestErrors:    counts.Errors,
	}
	if err := uc.reports.Upsert(report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	out := &ReviewSessionOutput{Report: report}
	if status == domain.ReportFailed {
		uc.escalate(ctx, session, summary, out)
	}

	uc.logger.Info("session reviewed",
		"session", session.ShortID(), "status", status, "files", stats.FilesChanged)
	return out, nil
}

// diffStats reads numstat, falling back to unified-diff counting when
// numstat is unavailable.
func (uc *ReviewSession) diffStats(dir string) shared.DiffStats {
	if dir == "" {
		return shared.DiffStats{}
	}
	numstat, err := uc.git.DiffNumstat(dir)
	if err == nil {
		return shared.ParseNumstat(numstat)
	}
	uc.logger.Warn("numstat failed, counting unified diff", "dir", dir, "error", err)

	diff, err := uc.git.Diff(dir)
	if err != nil {
		uc.logger.Warn("diff failed", "dir", dir, "error", err)
		return shared.DiffStats{}
	}
	return shared.CountUnifiedDiff(diff)
}

// runTests executes the configured test command inside dir. A missing
// or unparsable command skips the run; test failures are results, not
// errors.
func (uc *ReviewSession) runTests(ctx context.Context, dir string) (shared.TestCounts, string) {
	cfg, err := uc.configLoader.Load()
	if err != nil || cfg.Review.TestCommand == "" || dir == "" {
		return shared.TestCounts{}, ""
	}
	parts, err := shellwords.Parse(cfg.Review.TestCommand)
	if err != nil || len(parts) == 0 {
		uc.logger.Warn("unparsable test command", "command", cfg.Review.TestCommand, "error", err)
		return shared.TestCounts{}, ""
	}

	runCtx, cancel := context.WithTimeout(ctx, testCommandTimeout)
	defer cancel()

	raw, runErr := uc.executor.ExecuteCombined(runCtx, domain.CommandSpec{
		Program: parts[0],
		Args:    parts[1:],
		Dir:     dir,
	})
	if runErr != nil {
		uc.logger.Warn("test command exited abnormally", "error", runErr)
	}

	output := string(raw)
	return shared.ParseTestOutput(output), tail(output, outputSnippetCap)
}

func (uc *ReviewSession) escalate(ctx context.Context, session *domain.Session, summary string, out *ReviewSessionOutput) {
	target := domain.EscalationTarget(session.AgentBackend)
	if target == "" {
		return
	}

	event := &domain.AgentEvent{
		Created:   uc.clock.Now(),
		SessionID: session.ID,
		Type:      domain.EventNeedsHelp,
		Message:   fmt.Sprintf("session %s failed review, escalating to %s", session.ShortID(), target),
	}
	if err := uc.events.Insert(event); err != nil {
		uc.logger.Warn("record escalation event", "session", session.ShortID(), "error", err)
	}

	prompt := fmt.Sprintf(
		"Previous %s session failed. Issue: %s\nPlease fix the problems and complete the task.",
		session.AgentBackend, summary)
	started, err := uc.starter.Execute(ctx, StartSessionInput{
		TaskSlug:  session.TaskSlug,
		AgentType: string(target),
		Prompt:    prompt,
	})
	if err != nil {
		uc.logger.Warn("escalation start failed", "session", session.ShortID(), "error", err)
		return
	}

	out.EscalatedTo = target
	out.EscalationSession = started.Session
}

func classify(stats shared.DiffStats, counts shared.TestCounts) domain.ReportStatus {
	switch {
	case counts.Failed > 0 || counts.Errors > 0:
		return domain.ReportFailed
	case stats.FilesChanged == 0:
		return domain.ReportPartial
	default:
		return domain.ReportSuccess
	}
}

func summarize(stats shared.DiffStats, counts shared.TestCounts) string {
	s := fmt.Sprintf("%d files changed (+%d/-%d)", stats.FilesChanged, stats.Insertions, stats.Deletions)
	if counts.Passed+counts.Failed+counts.Errors > 0 {
		s += fmt.Sprintf("; tests: %d passed, %d failed, %d errors", counts.Passed, counts.Failed, counts.Errors)
	}
	return s
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
