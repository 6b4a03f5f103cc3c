package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

const anthropicVersion = "2023-06-01"

// Ensure Anthropic implements Provider.
var _ Provider = (*Anthropic)(nil)

// Anthropic implements Provider for the Anthropic Messages API.
// Fields are ordered to minimize memory padding.
type Anthropic struct {
	httpClient *http.Client
	name       string
	baseURL    string
	apiKey     string
	model      string // Default model when the request leaves it empty
}

// NewAnthropic creates an Anthropic provider from one [providers]
// config section.
func NewAnthropic(name string, cfg ProviderSettings, httpClient *http.Client) *Anthropic {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.anthropic.com"
	}
	return &Anthropic{
		httpClient: httpClient,
		name:       name,
		baseURL:    base,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

// Name returns the configured provider name.
func (provider *Anthropic) Name() string { return provider.name }

// Complete sends a messages request and returns the response.
func (provider *Anthropic) Complete(ctx context.Context, request Request) (*Response, error) {
	wireRequest := provider.buildRequest(request)

	headers := map[string]string{
		"x-api-key":         provider.apiKey,
		"anthropic-version": anthropicVersion,
	}

	httpResponse, err := doProviderRequest(ctx, provider.httpClient,
		provider.endpoint(), wireRequest, headers, "llm/anthropic")
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResponse.Body.Close() }()

	var wireResp anthropicResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wireResp); err != nil {
		return nil, &ProviderError{StatusCode: httpResponse.StatusCode, Message: "decoding response: " + err.Error()}
	}

	response := wireResp.toResponse()
	response.Provider = provider.name
	return response, nil
}

func (provider *Anthropic) endpoint() string {
	if strings.HasSuffix(provider.baseURL, "/v1") {
		return provider.baseURL + "/messages"
	}
	return provider.baseURL + "/v1/messages"
}

// buildRequest converts the neutral request to the Messages API wire
// format. Tool-role history entries become tool_result blocks inside
// user messages; consecutive user-side entries share one message so
// the role sequence stays alternating.
func (provider *Anthropic) buildRequest(request Request) anthropicRequest {
	model := request.Model
	if model == "" {
		model = provider.model
	}

	wireRequest := anthropicRequest{
		Model:     model,
		System:    request.System,
		MaxTokens: request.MaxTokens,
		Messages:  toAnthropicMessages(request.Messages),
	}
	if wireRequest.MaxTokens == 0 {
		// max_tokens is required by the Messages API.
		wireRequest.MaxTokens = 4096
	}

	for _, tool := range request.Tools {
		wireRequest.Tools = append(wireRequest.Tools, anthropicTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	return wireRequest
}

func toAnthropicMessages(history []domain.ChatMessage) []anthropicMessage {
	var out []anthropicMessage

	appendUserBlock := func(block anthropicBlock) {
		if len(out) > 0 && out[len(out)-1].Role == "user" {
			last := &out[len(out)-1]
			last.Content = append(last.Content, block)
			return
		}
		out = append(out, anthropicMessage{Role: "user", Content: []anthropicBlock{block}})
	}

	for _, message := range history {
		switch message.Role {
		case domain.RoleAssistant:
			var blocks []anthropicBlock
			if message.Content != "" {
				blocks = append(blocks, anthropicBlock{Type: "text", Text: message.Content})
			}
			for _, call := range message.ToolCalls {
				input := call.Arguments
				if len(input) == 0 {
					input = json.RawMessage("{}")
				}
				blocks = append(blocks, anthropicBlock{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: input,
				})
			}
			out = append(out, anthropicMessage{Role: "assistant", Content: blocks})
		case domain.RoleTool:
			appendUserBlock(anthropicBlock{
				Type:      "tool_result",
				ToolUseID: message.ToolCallID,
				Content:   message.Content,
			})
		default:
			appendUserBlock(anthropicBlock{Type: "text", Text: message.Content})
		}
	}

	return out
}

// --- Anthropic wire types ---

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

// anthropicBlock is the union of the content block shapes this client
// sends and receives: text, tool_use, and tool_result.
type anthropicBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

type anthropicResponse struct {
	ID         string           `json:"id"`
	Model      string           `json:"model"`
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
	Usage      anthropicUsage   `json:"usage"`
}

type anthropicUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

func (wireResponse *anthropicResponse) toResponse() *Response {
	response := &Response{
		Model: wireResponse.Model,
		Usage: Usage{
			PromptTokens:     wireResponse.Usage.InputTokens,
			CompletionTokens: wireResponse.Usage.OutputTokens,
		},
	}

	var text strings.Builder
	for _, block := range wireResponse.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			response.ToolCalls = append(response.ToolCalls, domain.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	response.Content = text.String()

	return response
}
