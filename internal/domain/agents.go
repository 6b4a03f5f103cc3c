package domain

// Backend identifies an agent backend, which doubles as the tier
// identifier for routing and escalation.
type Backend string

const (
	// BackendClaudeLocal runs the claude CLI against a local
	// llama.cpp server. Cheapest tier, junior work.
	BackendClaudeLocal Backend = "claude-local"

	// BackendOpenCode runs the opencode CLI. Mid tier,
	// well-scoped implementation work.
	BackendOpenCode Backend = "opencode"

	// BackendClaudeCode runs the claude CLI against the hosted API.
	// Senior tier, architecture and judgment calls.
	BackendClaudeCode Backend = "claude-code"
)

// tierOrder ranks backends from cheapest to most capable. Escalation
// walks this list upward and never past the last entry.
var tierOrder = []Backend{BackendClaudeLocal, BackendOpenCode, BackendClaudeCode}

// TierNames maps each backend to its policy-facing tier label.
var TierNames = map[Backend]string{
	BackendClaudeLocal: "junior",
	BackendOpenCode:    "mid",
	BackendClaudeCode:  "senior",
}

// TierIndex returns the backend's position in the escalation order.
// Unknown backends rank as the lowest tier.
func TierIndex(b Backend) int {
	for i, backend := range tierOrder {
		if backend == b {
			return i
		}
	}
	return 0
}

// EscalationTarget returns the next backend up from b, or "" when b is
// already the top tier (or unknown ranks escalate from the bottom).
func EscalationTarget(b Backend) Backend {
	idx := TierIndex(b)
	if idx >= len(tierOrder)-1 {
		return ""
	}
	return tierOrder[idx+1]
}

// IsKnownBackend reports whether b names a registered backend.
func IsKnownBackend(b Backend) bool {
	switch b {
	case BackendClaudeLocal, BackendOpenCode, BackendClaudeCode:
		return true
	default:
		return false
	}
}

// DefaultLocalModel is the model alias passed to the claude CLI when it
// targets a local llama.cpp server. The alias must be one the CLI
// accepts; the server decides what actually serves the request.
const DefaultLocalModel = "claude-sonnet-4-20250514"

// StartParams carries the per-session inputs to a command builder.
// Fields are ordered to minimize memory padding.
type StartParams struct {
	SessionID     string            // Agent thread/session identifier
	Prompt        string            // Initial prompt (may be empty)
	Model         string            // Model override (may be empty)
	WorkspacePath string            // Working directory for the agent
	LocalBaseURL  string            // llama.cpp endpoint for claude-local
	Env           map[string]string // Extra environment passthrough
}

// StartCommand builds the immutable CommandSpec that launches the given
// backend. Unknown backends fall back to the senior builder so a stale
// config value still produces a runnable command.
func StartCommand(b Backend, p StartParams) CommandSpec {
	switch b {
	case BackendOpenCode:
		return opencodeStart(p)
	case BackendClaudeLocal:
		return claudeLocalStart(p)
	default:
		return claudeCodeStart(p)
	}
}

func claudeCodeStart(p StartParams) CommandSpec {
	args := []string{"--permission-mode", "bypassPermissions"}
	if p.SessionID != "" {
		args = append(args, "--session-id", p.SessionID)
	}
	if p.Model != "" {
		args = append(args, "--model", p.Model)
	}
	if p.Prompt != "" {
		args = append(args, p.Prompt)
	}
	return CommandSpec{
		Program: "claude",
		Args:    args,
		Env:     copyEnv(p.Env),
		Dir:     p.WorkspacePath,
	}
}

func claudeLocalStart(p StartParams) CommandSpec {
	args := []string{"--permission-mode", "bypassPermissions"}
	if p.SessionID != "" {
		args = append(args, "--session-id", p.SessionID)
	}
	model := p.Model
	if model == "" {
		model = DefaultLocalModel
	}
	args = append(args, "--model", model)
	if p.Prompt != "" {
		args = append(args, p.Prompt)
	}

	// Redirect the claude CLI at the local OpenAI-compatible endpoint.
	env := copyEnv(p.Env)
	if env == nil {
		env = make(map[string]string, 3)
	}
	env["ANTHROPIC_BASE_URL"] = p.LocalBaseURL
	env["ANTHROPIC_AUTH_TOKEN"] = "local"
	env["ANTHROPIC_API_KEY"] = ""

	return CommandSpec{
		Program: "claude",
		Args:    args,
		Env:     env,
		Dir:     p.WorkspacePath,
	}
}

func opencodeStart(p StartParams) CommandSpec {
	var args []string
	if p.SessionID != "" {
		args = append(args, "--session", p.SessionID)
	}
	if p.Model != "" {
		args = append(args, "--model", p.Model)
	}
	if p.Prompt != "" {
		args = append(args, "--prompt", p.Prompt)
	}
	return CommandSpec{
		Program: "opencode",
		Args:    args,
		Env:     copyEnv(p.Env),
		Dir:     p.WorkspacePath,
	}
}

func copyEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
