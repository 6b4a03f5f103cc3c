package coordinator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/usecase"
)

// stallProbeLines is how much scrollback each stall check hashes.
const stallProbeLines = 15

// DeadlineTable holds auto-stop deadlines for running sessions. It is
// in-memory only; deadlines do not survive a server restart.
type DeadlineTable struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

// NewDeadlineTable creates an empty deadline table.
func NewDeadlineTable() *DeadlineTable {
	return &DeadlineTable{deadlines: make(map[string]time.Time)}
}

// Set schedules an auto-stop for the session, replacing any earlier
// deadline.
func (d *DeadlineTable) Set(sessionID string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deadlines[sessionID] = at
}

// Clear drops the session's deadline, if any.
func (d *DeadlineTable) Clear(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.deadlines, sessionID)
}

// Expired removes and returns the sessions whose deadline has passed,
// sorted by id.
func (d *DeadlineTable) Expired(now time.Time) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ids []string
	for id, at := range d.deadlines {
		if !now.Before(at) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(d.deadlines, id)
	}
	sort.Strings(ids)
	return ids
}

type outputMark struct {
	seen time.Time
	hash string
}

// Watchdog patrols running sessions: it emits a stalled event when a
// session's output stops changing for the stall window, and stops
// sessions that pass their deadline. A session whose process died
// also stops producing output, so it surfaces through the same stall
// path.
// Fields are ordered to minimize memory padding.
type Watchdog struct {
	sessions  domain.SessionRepository
	subproc   domain.SubprocessManager
	events    domain.EventRepository
	stopper   *usecase.StopSession
	notifier  domain.Notifier
	deadlines *DeadlineTable
	clock     domain.Clock
	logger    *slog.Logger
	marks     map[string]outputMark
	recipient string
	poll      time.Duration
	stall     time.Duration
	mu        sync.Mutex
}

// NewWatchdog creates a watchdog from the stall detection config.
// Non-positive intervals fall back to the defaults (30s poll, 600s
// stall window).
func NewWatchdog(
	sessions domain.SessionRepository,
	subproc domain.SubprocessManager,
	events domain.EventRepository,
	stopper *usecase.StopSession,
	notifier domain.Notifier,
	deadlines *DeadlineTable,
	cfg domain.WatchdogConfig,
	recipient string,
	clock domain.Clock,
	logger *slog.Logger,
) *Watchdog {
	poll := time.Duration(cfg.PollSeconds) * time.Second
	if poll <= 0 {
		poll = 30 * time.Second
	}
	stall := time.Duration(cfg.StallSeconds) * time.Second
	if stall <= 0 {
		stall = 600 * time.Second
	}
	return &Watchdog{
		sessions:  sessions,
		subproc:   subproc,
		events:    events,
		stopper:   stopper,
		notifier:  notifier,
		deadlines: deadlines,
		clock:     clock,
		logger:    logger,
		marks:     make(map[string]outputMark),
		recipient: recipient,
		poll:      poll,
		stall:     stall,
	}
}

// Run patrols until the context is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	w.logger.Info("watchdog started", "poll", w.poll, "stall", w.stall)
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watchdog stopped")
			return
		case <-ticker.C:
			w.checkStalls(ctx)
			w.checkDeadlines(ctx)
		}
	}
}

// checkStalls hashes each running session's recent output and emits a
// stalled event once the hash stops changing for the stall window.
func (w *Watchdog) checkStalls(ctx context.Context) {
	sessions, err := w.sessions.List()
	if err != nil {
		w.logger.Warn("watchdog list sessions", "error", err)
		return
	}

	now := w.clock.Now()
	running := make(map[string]bool)
	for _, s := range sessions {
		if s.Lifecycle != domain.LifecycleRunning || !s.Attachment.HasPane() {
			continue
		}
		running[s.ID] = true

		output, err := w.subproc.CaptureOutput(ctx, s.Attachment, stallProbeLines)
		if err != nil {
			w.logger.Debug("watchdog capture", "session", s.ShortID(), "error", err)
			continue
		}
		sum := sha256.Sum256([]byte(output))
		hash := hex.EncodeToString(sum[:])

		w.mu.Lock()
		mark, ok := w.marks[s.ID]
		if !ok || mark.hash != hash {
			w.marks[s.ID] = outputMark{hash: hash, seen: now}
			w.mu.Unlock()
			continue
		}
		unchanged := now.Sub(mark.seen)
		if unchanged < w.stall {
			w.mu.Unlock()
			continue
		}
		// Reset so the event fires once per stall, not once per poll.
		w.marks[s.ID] = outputMark{hash: hash, seen: now}
		w.mu.Unlock()

		w.fireStall(ctx, s, unchanged)
	}

	w.mu.Lock()
	for id := range w.marks {
		if !running[id] {
			delete(w.marks, id)
		}
	}
	w.mu.Unlock()
}

func (w *Watchdog) fireStall(ctx context.Context, s *domain.Session, unchanged time.Duration) {
	secs := int(unchanged / time.Second)
	event := &domain.AgentEvent{
		Created:   w.clock.Now(),
		SessionID: s.ID,
		Type:      domain.EventStalled,
		Message:   fmt.Sprintf("output unchanged for %ds", secs),
	}
	if err := w.events.Insert(event); err != nil {
		w.logger.Warn("record stall event", "session", s.ShortID(), "error", err)
	}
	w.logger.Warn("session stalled", "session", s.ShortID(), "unchanged", unchanged)
	w.notify(ctx, fmt.Sprintf("squad: session %s stalled, output unchanged for %ds", s.DisplayName(), secs))
}

// checkDeadlines stops running sessions whose deadline has passed.
// Expired entries for sessions that already stopped are dropped
// silently.
func (w *Watchdog) checkDeadlines(ctx context.Context) {
	for _, id := range w.deadlines.Expired(w.clock.Now()) {
		session, err := w.sessions.FindByID(id)
		if err != nil {
			w.logger.Warn("watchdog find session", "session", domain.ShortID(id), "error", err)
			continue
		}
		if session == nil || session.Lifecycle != domain.LifecycleRunning {
			continue
		}
		if _, err := w.stopper.Execute(ctx, usecase.StopSessionInput{ID: id}); err != nil {
			w.logger.Warn("deadline stop", "session", session.ShortID(), "error", err)
			continue
		}
		event := &domain.AgentEvent{
			Created:   w.clock.Now(),
			SessionID: id,
			Type:      domain.EventDeadline,
			Message:   "auto-stopped: deadline expired",
		}
		if err := w.events.Insert(event); err != nil {
			w.logger.Warn("record deadline event", "session", session.ShortID(), "error", err)
		}
		w.logger.Info("session stopped at deadline", "session", session.ShortID())
		w.notify(ctx, fmt.Sprintf("squad: session %s stopped, deadline expired", session.DisplayName()))
	}
}

// notify delivers an operator notification. Missing notifier or
// recipient disables delivery; failures are logged and swallowed.
func (w *Watchdog) notify(ctx context.Context, text string) {
	if w.notifier == nil || w.recipient == "" {
		return
	}
	if err := w.notifier.SendNotification(ctx, w.recipient, text); err != nil {
		w.logger.Warn("send notification", "error", err)
	}
}
