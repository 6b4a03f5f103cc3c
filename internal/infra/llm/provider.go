// Package llm implements the coordinator's language model providers.
// Two wire clients cover the configured endpoints: the Anthropic
// Messages API and the OpenAI chat completions format spoken by
// OpenRouter, llama.cpp, vLLM, and friends. A fallback chain tries
// providers in config order.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/runoshun/squad/internal/domain"
)

// ToolDefinition describes one callable tool offered to the model.
// Fields are ordered to minimize memory padding.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Request is a completion request in the provider-neutral format. The
// system prompt travels separately from the message history because
// it is rendered fresh per call, never persisted.
// Fields are ordered to minimize memory padding.
type Request struct {
	System    string
	Model     string // "" = provider default
	Messages  []domain.ChatMessage
	Tools     []ToolDefinition
	MaxTokens int
}

// Usage carries the token counts of one call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Response is the provider-neutral completion result.
// Fields are ordered to minimize memory padding.
type Response struct {
	Content   string
	Provider  string // Which provider served the call
	Model     string
	ToolCalls []domain.ToolCall
	Usage     Usage
}

// Provider is the interface for LLM API backends. Implementations
// translate between the neutral types in this package and the
// vendor's wire format.
type Provider interface {
	// Name returns the configured provider name, used for usage
	// records and log lines.
	Name() string

	// Complete sends a request and blocks until the full response is
	// available.
	Complete(ctx context.Context, request Request) (*Response, error)
}

// healthChecker is implemented by providers that can cheaply verify
// their endpoint is reachable before a completion is attempted. Local
// endpoints come and go with the process serving them.
type healthChecker interface {
	Healthy(ctx context.Context) bool
}

// ProviderError is returned when the LLM API responds with an error.
// Fields are ordered to minimize memory padding.
type ProviderError struct {
	Type       string
	Message    string
	StatusCode int
}

func (err *ProviderError) Error() string {
	if err.Type != "" {
		return fmt.Sprintf("llm: HTTP %d: %s: %s", err.StatusCode, err.Type, err.Message)
	}
	return fmt.Sprintf("llm: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsRateLimited reports whether the error is a rate limit response.
func (err *ProviderError) IsRateLimited() bool {
	return err.StatusCode == http.StatusTooManyRequests
}

// doProviderRequest marshals wireRequest as JSON, POSTs it to endpoint
// with the given headers, and returns the HTTP response. Non-200
// status codes become a ProviderError with the body already closed.
// On success the caller owns the response body.
func doProviderRequest(ctx context.Context, httpClient *http.Client, endpoint string, wireRequest any, headers map[string]string, prefix string) (*http.Response, error) {
	body, err := json.Marshal(wireRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: marshaling request: %w", prefix, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", prefix, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpRequest.Header.Set(k, v)
	}

	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: sending request: %w", prefix, err)
	}

	if httpResponse.StatusCode != http.StatusOK {
		defer func() { _ = httpResponse.Body.Close() }()
		return nil, readProviderError(httpResponse)
	}

	return httpResponse, nil
}

// toolCallFromWire builds a persisted-form tool call from wire parts.
// Providers send arguments as a JSON-encoded string; anything invalid
// normalizes to the empty object so re-marshaling the conversation
// stays valid.
func toolCallFromWire(id, name, arguments string) domain.ToolCall {
	args := json.RawMessage(arguments)
	if len(args) == 0 || !json.Valid(args) {
		args = json.RawMessage("{}")
	}
	return domain.ToolCall{ID: id, Name: name, Arguments: args}
}

// readProviderError parses an error response body in the common
// provider error format used by Anthropic, OpenAI, and compatible
// APIs: {"error":{"type":"...","message":"..."}}.
func readProviderError(httpResponse *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))

	var wireError struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &ProviderError{
			StatusCode: httpResponse.StatusCode,
			Type:       wireError.Error.Type,
			Message:    wireError.Error.Message,
		}
	}

	return &ProviderError{
		StatusCode: httpResponse.StatusCode,
		Message:    string(body),
	}
}
