package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/runoshun/squad/internal/domain"
)

// ErrNoProviders is returned when the fallback chain is empty or every
// provider was skipped.
var ErrNoProviders = errors.New("no usable llm providers")

// ProviderSettings is a provider config section with the API key
// already resolved from the environment.
// Fields are ordered to minimize memory padding.
type ProviderSettings struct {
	APIKey  string
	BaseURL string
	Model   string
}

// resolveSettings applies the api_key/api_key_env precedence.
func resolveSettings(cfg domain.ProviderConfig, getenv func(string) string) ProviderSettings {
	key := cfg.APIKey
	if key == "" && cfg.APIKeyEnv != "" {
		key = getenv(cfg.APIKeyEnv)
	}
	return ProviderSettings{
		APIKey:  key,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	}
}

// New builds a provider for one named [providers] section. The name
// "anthropic" selects the native Messages API client; everything else
// speaks the OpenAI chat completions format.
func New(name string, cfg domain.ProviderConfig, httpClient *http.Client, getenv func(string) string) Provider {
	settings := resolveSettings(cfg, getenv)
	if name == "anthropic" {
		return NewAnthropic(name, settings, httpClient)
	}
	return NewOpenAI(name, settings, httpClient)
}

// Fallback tries providers in order until one answers. Local endpoints
// are health checked before each attempt; failures are logged and the
// next provider takes over.
// Fields are ordered to minimize memory padding.
type Fallback struct {
	logger    *slog.Logger
	providers []Provider
}

// Ensure Fallback implements Provider.
var _ Provider = (*Fallback)(nil)

// NewFallback creates a fallback chain over already-built providers.
func NewFallback(providers []Provider, logger *slog.Logger) *Fallback {
	return &Fallback{providers: providers, logger: logger}
}

// BuildChain assembles the fallback chain from the coordinator config:
// the primary provider first, then the provider_order entries.
// Providers without a credential are dropped here; local endpoints are
// additionally probed per call.
func BuildChain(cfg *domain.Config, httpClient *http.Client, getenv func(string) string, logger *slog.Logger) *Fallback {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	names := make([]string, 0, 1+len(cfg.Coordinator.ProviderOrder))
	if cfg.Coordinator.Provider != "" {
		names = append(names, cfg.Coordinator.Provider)
	}
	for _, name := range cfg.Coordinator.ProviderOrder {
		if name != cfg.Coordinator.Provider {
			names = append(names, name)
		}
	}

	var providers []Provider
	for _, name := range names {
		section, ok := cfg.Providers[name]
		if !ok {
			continue
		}
		if !section.HasCredential(getenv) {
			logger.Warn("skipping provider without credential", "provider", name)
			continue
		}
		providers = append(providers, New(name, section, httpClient, getenv))
	}

	return NewFallback(providers, logger)
}

// Name identifies the chain in logs; usage records carry the name of
// the provider that actually served the call.
func (f *Fallback) Name() string { return "fallback" }

// Complete tries each provider in order and returns the first
// successful response.
func (f *Fallback) Complete(ctx context.Context, request Request) (*Response, error) {
	if len(f.providers) == 0 {
		return nil, ErrNoProviders
	}

	var lastErr error
	for _, provider := range f.providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if hc, ok := provider.(healthChecker); ok && !hc.Healthy(ctx) {
			f.logger.Warn("provider endpoint unreachable", "provider", provider.Name())
			continue
		}

		response, err := provider.Complete(ctx, request)
		if err == nil {
			return response, nil
		}
		lastErr = err
		f.logger.Warn("provider failed", "provider", provider.Name(), "error", err)
	}

	if lastErr == nil {
		return nil, ErrNoProviders
	}
	return nil, fmt.Errorf("all %d providers failed: %w", len(f.providers), lastErr)
}
