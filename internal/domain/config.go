package domain

import "fmt"

// Config is the application configuration, merged from defaults, the
// global config file, and the workspace-local one.
// Fields are ordered to minimize memory padding.
type Config struct {
	Providers    map[string]ProviderConfig `toml:"providers"`
	DefaultAgent Backend                   `toml:"default_agent"`
	General      GeneralConfig             `toml:"general"`
	Server       ServerConfig              `toml:"server"`
	Tmux         TmuxConfig                `toml:"tmux"`
	Coordinator  CoordinatorConfig         `toml:"coordinator"`
	Review       ReviewConfig              `toml:"review"`
	Watchdog     WatchdogConfig            `toml:"watchdog"`
	Notify       NotifyConfig              `toml:"notify"`
	Log          LogConfig                 `toml:"log"`
}

// GeneralConfig holds top-level workspace settings.
type GeneralConfig struct {
	WorkspaceRoot string `toml:"workspace_root"` // Default parent for task workspaces
}

// ServerConfig holds RPC server settings.
type ServerConfig struct {
	SocketPath string `toml:"socket_path"` // Empty = runtime-directory default
}

// TmuxConfig holds multiplexer settings.
type TmuxConfig struct {
	SessionPrefix string `toml:"session_prefix"`
	Enabled       bool   `toml:"enabled"`
}

// ProviderConfig describes one LLM provider endpoint.
type ProviderConfig struct {
	APIKey    string `toml:"api_key"`     // Inline key (prefer api_key_env)
	APIKeyEnv string `toml:"api_key_env"` // Environment variable holding the key
	BaseURL   string `toml:"base_url"`    // Endpoint override; required for local providers
	Model     string `toml:"model"`       // Default model for this provider
}

// HasCredential reports whether the provider can authenticate. Local
// endpoints (explicit base_url, no key) count as credentialed; their
// reachability is probed separately.
func (p ProviderConfig) HasCredential(getenv func(string) string) bool {
	if p.APIKey != "" {
		return true
	}
	if p.APIKeyEnv != "" && getenv(p.APIKeyEnv) != "" {
		return true
	}
	return p.BaseURL != "" && p.APIKeyEnv == "" && p.APIKey == ""
}

// CoordinatorConfig holds the tool-dispatch engine settings.
type CoordinatorConfig struct {
	Provider      string   `toml:"provider"`       // Primary provider name
	Model         string   `toml:"model"`          // Model override ("" = provider default)
	ProviderOrder []string `toml:"provider_order"` // Fallback order after the primary
	MaxToolRounds int      `toml:"max_tool_rounds"`
	MaxTokens     int      `toml:"max_tokens"`
}

// ReviewConfig holds session review settings.
type ReviewConfig struct {
	TestCommand string `toml:"test_command"` // Run in the worktree during review ("" = skip tests)
}

// WatchdogConfig holds stall detection settings.
type WatchdogConfig struct {
	PollSeconds  int  `toml:"poll_seconds"`
	StallSeconds int  `toml:"stall_seconds"`
	Enabled      bool `toml:"enabled"`
}

// NotifyConfig holds operator notification settings.
type NotifyConfig struct {
	Command   string `toml:"command"`   // Executable invoked as <command> <recipient> <text> ("" = log only)
	Recipient string `toml:"recipient"` // Default recipient
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// NewDefaultConfig returns the built-in configuration.
func NewDefaultConfig() *Config {
	return &Config{
		DefaultAgent: BackendClaudeCode,
		Server:       ServerConfig{},
		Tmux: TmuxConfig{
			Enabled:       true,
			SessionPrefix: "sq",
		},
		Providers: map[string]ProviderConfig{
			"anthropic": {
				APIKeyEnv: "ANTHROPIC_API_KEY",
				Model:     "claude-sonnet-4-20250514",
			},
			"openrouter": {
				APIKeyEnv: "OPENROUTER_API_KEY",
				BaseURL:   "https://openrouter.ai/api/v1",
				Model:     "anthropic/claude-sonnet-4",
			},
			"llamacpp": {
				BaseURL: "http://localhost:8080",
				Model:   DefaultLocalModel,
			},
		},
		Coordinator: CoordinatorConfig{
			Provider:      "anthropic",
			ProviderOrder: []string{"openrouter", "llamacpp"},
			MaxToolRounds: 10,
			MaxTokens:     4096,
		},
		Watchdog: WatchdogConfig{
			Enabled:      true,
			PollSeconds:  30,
			StallSeconds: 600,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the merged configuration for values that would only
// fail later and further from their cause.
func (c *Config) Validate() error {
	if !IsKnownBackend(c.DefaultAgent) {
		return fmt.Errorf("default_agent %q: %w", c.DefaultAgent, ErrUnknownBackend)
	}
	if c.Coordinator.MaxToolRounds <= 0 {
		return fmt.Errorf("coordinator.max_tool_rounds must be positive: %w", ErrInvalidArgument)
	}
	if c.Coordinator.Provider != "" {
		if _, ok := c.Providers[c.Coordinator.Provider]; !ok {
			return fmt.Errorf("coordinator.provider %q has no [providers.%s] section: %w",
				c.Coordinator.Provider, c.Coordinator.Provider, ErrInvalidArgument)
		}
	}
	for _, name := range c.Coordinator.ProviderOrder {
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("provider_order entry %q has no [providers.%s] section: %w",
				name, name, ErrInvalidArgument)
		}
	}
	return nil
}

// LocalProviderBaseURL returns the llama.cpp endpoint used by the
// claude-local backend, or "" when unconfigured.
func (c *Config) LocalProviderBaseURL() string {
	if p, ok := c.Providers["llamacpp"]; ok {
		return p.BaseURL
	}
	return ""
}
