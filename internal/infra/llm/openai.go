package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// healthTimeout caps the reachability probe for local endpoints.
const healthTimeout = 2 * time.Second

// Ensure OpenAI implements Provider.
var _ Provider = (*OpenAI)(nil)

// OpenAI implements Provider for the OpenAI chat completions wire
// format. It covers every configured endpoint that is not Anthropic:
// OpenRouter, llama.cpp, vLLM, Ollama, and the OpenAI API itself.
// Fields are ordered to minimize memory padding.
type OpenAI struct {
	httpClient *http.Client
	name       string
	baseURL    string
	apiKey     string
	model      string // Default model when the request leaves it empty
	healthURL  string // Non-empty for local endpoints probed before use
}

// NewOpenAI creates an OpenAI-compatible provider from one [providers]
// config section. Key resolution prefers the inline api_key over the
// api_key_env lookup. A keyless endpoint is treated as local and gets
// a /health reachability probe.
func NewOpenAI(name string, cfg ProviderSettings, httpClient *http.Client) *OpenAI {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}

	provider := &OpenAI{
		httpClient: httpClient,
		name:       name,
		baseURL:    base,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
	if provider.apiKey == "" {
		provider.healthURL = strings.TrimSuffix(base, "/v1") + "/health"
	}
	return provider
}

// Name returns the configured provider name.
func (provider *OpenAI) Name() string { return provider.name }

// Healthy probes the local endpoint's /health route. Providers with an
// API key are assumed reachable.
func (provider *OpenAI) Healthy(ctx context.Context) bool {
	if provider.healthURL == "" {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.healthURL, nil)
	if err != nil {
		return false
	}
	resp, err := provider.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Complete sends a chat completion request and returns the response.
func (provider *OpenAI) Complete(ctx context.Context, request Request) (*Response, error) {
	wireRequest := provider.buildRequest(request)

	headers := map[string]string{}
	if provider.apiKey != "" {
		headers["Authorization"] = "Bearer " + provider.apiKey
	}

	httpResponse, err := doProviderRequest(ctx, provider.httpClient,
		provider.endpoint(), wireRequest, headers, "llm/openai")
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResponse.Body.Close() }()

	var wireResp openaiResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wireResp); err != nil {
		return nil, &ProviderError{StatusCode: httpResponse.StatusCode, Message: "decoding response: " + err.Error()}
	}

	response := wireResp.toResponse()
	response.Provider = provider.name
	return response, nil
}

// endpoint returns the chat completions URL. Configured base URLs may
// or may not carry the /v1 segment (llama.cpp's default does not).
func (provider *OpenAI) endpoint() string {
	if strings.HasSuffix(provider.baseURL, "/v1") {
		return provider.baseURL + "/chat/completions"
	}
	return provider.baseURL + "/v1/chat/completions"
}

// buildRequest converts the neutral request to the OpenAI wire format.
func (provider *OpenAI) buildRequest(request Request) openaiRequest {
	model := request.Model
	if model == "" {
		model = provider.model
	}

	wireRequest := openaiRequest{
		Model:     model,
		MaxTokens: request.MaxTokens,
	}

	// System prompt becomes the first message with role "system".
	if request.System != "" {
		wireRequest.Messages = append(wireRequest.Messages, openaiMessage{
			Role:    "system",
			Content: request.System,
		})
	}

	for _, message := range request.Messages {
		wire := openaiMessage{
			Role:       message.Role,
			Content:    message.Content,
			ToolCallID: message.ToolCallID,
			Name:       message.Name,
		}
		for _, call := range message.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, openaiToolCall{
				ID:   call.ID,
				Type: "function",
				Function: openaiToolFunction{
					Name:      call.Name,
					Arguments: string(call.Arguments),
				},
			})
		}
		wireRequest.Messages = append(wireRequest.Messages, wire)
	}

	for _, tool := range request.Tools {
		wireRequest.Tools = append(wireRequest.Tools, openaiTool{
			Type: "function",
			Function: openaiToolDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		})
	}

	return wireRequest
}

// --- OpenAI wire types ---
//
// These map directly to the chat completions JSON format. They are
// separate from the persisted conversation types because the wire
// format carries tool arguments as a JSON-encoded string, not an
// object.

type openaiRequest struct {
	Model     string          `json:"model"`
	Messages  []openaiMessage `json:"messages"`
	Tools     []openaiTool    `json:"tools,omitempty"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openaiMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content,omitempty"`
	Name       string           `json:"name,omitempty"`
	ToolCalls  []openaiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openaiToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openaiToolFunction `json:"function"`
}

type openaiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openaiTool struct {
	Type     string               `json:"type"`
	Function openaiToolDefinition `json:"function"`
}

type openaiToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type openaiResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

func (wireResponse *openaiResponse) toResponse() *Response {
	response := &Response{
		Model: wireResponse.Model,
		Usage: Usage{
			PromptTokens:     wireResponse.Usage.PromptTokens,
			CompletionTokens: wireResponse.Usage.CompletionTokens,
		},
	}

	if len(wireResponse.Choices) == 0 {
		return response
	}

	choice := wireResponse.Choices[0]
	response.Content = choice.Message.Content
	for _, call := range choice.Message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, toolCallFromWire(call.ID, call.Function.Name, call.Function.Arguments))
	}

	return response
}
