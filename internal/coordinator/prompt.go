package coordinator

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/squad/internal/domain"
)

const promptTemplate = `You are the squad coordinator - a meta-agent with full visibility and control over every task, session, and agent in the system.

You can:
- Monitor: see every task, session, lifecycle state, and recent output
- Manage: create and archive tasks, start/stop/pause/resume sessions, set deadlines
- Review: generate structured session reports with diff stats and test results
- Merge: merge completed session branches back into the task workspace, or roll a merge back
- Remember: search, list, store, and delete memories scoped to tasks and sessions
- Advise: answer questions about progress, usage, and what agents are doing

Agent tiers (for start_coding_session):
- claude-code: senior engineer. Architecture, complex refactors, multi-file changes, work that
  needs deep reasoning. Highest capability, highest cost.
- opencode: mid-level engineer. Well-scoped implementation with clear requirements - new
  endpoints, features from specs, moderate refactors.
- claude-local: junior engineer on a local model. Boilerplate, renames, straightforward tests,
  small fixes with obvious solutions.

Always choose the lowest tier capable of the work. When decomposing a goal, create concrete
subtasks with create_task (set workspace_path), start sessions for each, and monitor progress.
Classify and assign - do not design the solution yourself.

Review policy:
- After a claude-local session completes, review it with review_session. The review runs tests
  and writes a structured report.
- A failed review below the senior tier escalates automatically; the result names the
  escalation session.
- Trust claude-code output - review only when the user asks.

Proactive monitoring:
- Unacknowledged events (stalls, deadlines, help requests) appear in the system state below.
- Use set_session_deadline to bound runaway sessions and check_session_liveness when output
  looks stale.

Current System State:
%s

Use the available tools to inspect and manage the system. Be helpful, concise, and proactive about suggesting actions when appropriate.`

// maxPromptEvents caps the unacknowledged events surfaced per turn.
const maxPromptEvents = 10

func (e *Engine) renderSystemPrompt() string {
	state := e.systemSnapshot()
	if events := e.pendingEvents(); events != "" {
		state += "\n\n" + events
	}
	return fmt.Sprintf(promptTemplate, state)
}

// systemSnapshot renders the task and session tree the model sees at
// the start of every turn. Repository failures degrade the snapshot
// instead of failing the message.
func (e *Engine) systemSnapshot() string {
	var b strings.Builder
	fmt.Fprintf(&b, "System snapshot at %s:\n", e.clock.Now().Format(time.RFC3339))

	tasks, err := e.tc.Tasks.List(false)
	if err != nil {
		e.logger.Warn("snapshot tasks", "error", err)
		b.WriteString("  (task listing unavailable)")
		return b.String()
	}

	type taskLine struct {
		task     *domain.Task
		sessions []*domain.Session
		running  int
	}
	var (
		lines        []taskLine
		active       int
		totalRunning int
		totalCount   int
	)
	for _, t := range tasks {
		if t.IsActive() {
			active++
		}
		sessions, err := e.tc.Sessions.ListByTask(t.Slug)
		if err != nil {
			e.logger.Warn("snapshot sessions", "task", t.Slug, "error", err)
			continue
		}
		line := taskLine{task: t, sessions: sessions}
		for _, s := range sessions {
			if s.Lifecycle == domain.LifecycleRunning {
				line.running++
			}
		}
		lines = append(lines, line)
		totalRunning += line.running
		totalCount += len(sessions)
	}

	fmt.Fprintf(&b, "  %d active tasks, %d/%d sessions running", active, totalRunning, totalCount)
	for _, line := range lines {
		icon := "○"
		if line.running > 0 {
			icon = "●"
		}
		fmt.Fprintf(&b, "\n  %s %s [%s] - %d/%d sessions running",
			icon, line.task.Slug, line.task.Status, line.running, len(line.sessions))
		for _, s := range line.sessions {
			fmt.Fprintf(&b, "\n    - %s (%s) [%s]", s.DisplayName(), s.Kind, s.Lifecycle)
		}
	}
	return b.String()
}

// pendingEvents lists the newest unacknowledged events, or "" when the
// queue is clear.
func (e *Engine) pendingEvents() string {
	events, err := e.tc.Events.ListUnacknowledged()
	if err != nil {
		e.logger.Warn("snapshot events", "error", err)
		return ""
	}
	if len(events) == 0 {
		return ""
	}
	if len(events) > maxPromptEvents {
		events = events[len(events)-maxPromptEvents:]
	}

	var b strings.Builder
	b.WriteString("Unacknowledged Events:")
	for _, ev := range events {
		b.WriteString("\n  - [" + string(ev.Type) + "]")
		if ev.SessionID != "" {
			b.WriteString(" session=" + domain.ShortID(ev.SessionID))
		}
		b.WriteString(" " + clip(ev.Message, 100))
	}
	return b.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
