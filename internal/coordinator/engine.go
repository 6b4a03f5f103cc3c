// Package coordinator implements the tool-dispatching meta-agent: an
// LLM given a closed tool registry and system-wide visibility over
// tasks and sessions, plus the watchdog that patrols them.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/infra/llm"
	"github.com/runoshun/squad/internal/usecase/shared"
)

// maxExchanges bounds conversation history to the last N user turns.
const maxExchanges = 20

// Engine runs coordinator conversations: it renders the system prompt,
// drives the provider tool loop, and persists history per counterpart.
type Engine struct {
	provider      llm.Provider
	conversations domain.ConversationRepository
	tools         map[string]Tool
	defs          []llm.ToolDefinition
	tc            *ToolContext
	clock         domain.Clock
	logger        *slog.Logger

	model     string
	maxRounds int
	maxTokens int

	mu    sync.Mutex
	cache map[string][]domain.ChatMessage
	locks *shared.KeyedLocks
}

// NewEngine creates a coordinator engine over the builtin tool
// registry.
func NewEngine(
	provider llm.Provider,
	conversations domain.ConversationRepository,
	tc *ToolContext,
	cfg domain.CoordinatorConfig,
	clock domain.Clock,
	logger *slog.Logger,
) *Engine {
	tools := builtinTools()
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = 10
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Engine{
		provider:      provider,
		conversations: conversations,
		tools:         tools,
		defs:          definitions(tools),
		tc:            tc,
		clock:         clock,
		logger:        logger,
		model:         cfg.Model,
		maxRounds:     maxRounds,
		maxTokens:     maxTokens,
		cache:         make(map[string][]domain.ChatMessage),
		locks:         shared.NewKeyedLocks(),
	}
}

// HandleMessage processes one user message on a conversation and
// returns the coordinator's answer. Tool calls run between completion
// rounds until the model answers in plain text or the round budget is
// spent; tool failures are reported to the model, never raised.
func (e *Engine) HandleMessage(ctx context.Context, channel, senderID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty message: %w", domain.ErrInvalidArgument)
	}

	key := domain.ConversationKey(channel, senderID)
	unlock := e.locks.Lock(key)
	defer unlock()

	history := e.loadHistory(key)
	history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: text})
	history = truncateHistory(history)

	system := e.renderSystemPrompt()

	var lastContent string
	for round := 0; round < e.maxRounds; round++ {
		response, err := e.provider.Complete(ctx, llm.Request{
			System:    system,
			Model:     e.model,
			Messages:  history,
			Tools:     e.defs,
			MaxTokens: e.maxTokens,
		})
		if err != nil {
			// Nothing persisted yet; the next attempt replays cleanly.
			return "", fmt.Errorf("coordinator completion: %w", err)
		}
		e.recordUsage(response)

		if len(response.ToolCalls) == 0 {
			history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: response.Content})
			e.persist(key, history)
			return response.Content, nil
		}

		lastContent = response.Content
		history = append(history, domain.ChatMessage{
			Role:      domain.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		for _, call := range response.ToolCalls {
			e.logger.Debug("tool call", "tool", call.Name)
			history = append(history, domain.ChatMessage{
				Role:       domain.RoleTool,
				Content:    e.dispatch(ctx, call),
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	// Round budget spent. Close the conversation with the model's last
	// words so no tool result is left dangling.
	if lastContent == "" {
		lastContent = "I couldn't complete the request."
	}
	e.logger.Warn("tool round budget exhausted", "conversation", key, "rounds", e.maxRounds)
	history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: lastContent})
	e.persist(key, history)
	return lastContent, nil
}

// Ask answers a one-shot question outside any conversation. The tool
// loop still runs so the answer can draw on live state, but nothing
// is loaded from or written to history.
func (e *Engine) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("empty question: %w", domain.ErrInvalidArgument)
	}

	system := e.renderSystemPrompt()
	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: question}}

	for round := 0; round < e.maxRounds; round++ {
		response, err := e.provider.Complete(ctx, llm.Request{
			System:    system,
			Model:     e.model,
			Messages:  history,
			Tools:     e.defs,
			MaxTokens: e.maxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("coordinator completion: %w", err)
		}
		e.recordUsage(response)

		if len(response.ToolCalls) == 0 {
			return response.Content, nil
		}

		history = append(history, domain.ChatMessage{
			Role:      domain.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		for _, call := range response.ToolCalls {
			history = append(history, domain.ChatMessage{
				Role:       domain.RoleTool,
				Content:    e.dispatch(ctx, call),
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}
	return "I couldn't complete the request.", nil
}

// dispatch executes one tool call and renders its result as the JSON
// the model reads back. Every failure mode becomes {"error": ...},
// including a handler panic; the loop itself never fails.
func (e *Engine) dispatch(ctx context.Context, call domain.ToolCall) (result string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool panicked", "tool", call.Name, "panic", r)
			result = errorResult(fmt.Sprintf("tool %s failed: %v", call.Name, r))
		}
	}()

	tool, ok := e.tools[call.Name]
	if !ok {
		e.logger.Warn("unknown tool requested", "tool", call.Name)
		return errorResult(fmt.Sprintf("unknown tool: %s", call.Name))
	}
	out, err := tool.Handler(ctx, e.tc, call.Arguments)
	if err != nil {
		e.logger.Warn("tool failed", "tool", call.Name, "error", err)
		return errorResult(err.Error())
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err))
	}
	return string(encoded)
}

func errorResult(msg string) string {
	encoded, _ := json.Marshal(map[string]string{"error": msg})
	return string(encoded)
}

// loadHistory returns a private copy of the conversation, loading and
// sanitizing it from the store on first use. Load failures start the
// conversation fresh rather than blocking the turn.
func (e *Engine) loadHistory(key string) []domain.ChatMessage {
	e.mu.Lock()
	cached, ok := e.cache[key]
	e.mu.Unlock()
	if ok {
		return append([]domain.ChatMessage(nil), cached...)
	}

	var messages []domain.ChatMessage
	conversation, err := e.conversations.Load(key)
	if err != nil {
		e.logger.Warn("load conversation", "key", key, "error", err)
	} else if conversation != nil {
		messages = sanitizeHistory(conversation.Messages)
	}

	e.mu.Lock()
	e.cache[key] = messages
	e.mu.Unlock()
	return append([]domain.ChatMessage(nil), messages...)
}

// persist caches the turn's final history and writes it through.
func (e *Engine) persist(key string, history []domain.ChatMessage) {
	e.mu.Lock()
	e.cache[key] = history
	e.mu.Unlock()

	err := e.conversations.Save(&domain.Conversation{
		Key:      key,
		Updated:  e.clock.Now(),
		Messages: history,
	})
	if err != nil {
		e.logger.Warn("persist conversation", "key", key, "error", err)
	}
}

func (e *Engine) recordUsage(response *llm.Response) {
	event := &domain.UsageEvent{
		Created:          e.clock.Now(),
		Provider:         response.Provider,
		Model:            response.Model,
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
	}
	if err := e.tc.Usage.Insert(event); err != nil {
		e.logger.Warn("record usage", "error", err)
	}
}

// sanitizeHistory trims trailing messages that would leave the next
// API call broken: tool results without a following assistant reply,
// and assistant messages whose tool calls were never answered.
func sanitizeHistory(messages []domain.ChatMessage) []domain.ChatMessage {
	for len(messages) > 0 {
		last := messages[len(messages)-1]
		if last.Role == domain.RoleTool ||
			(last.Role == domain.RoleAssistant && len(last.ToolCalls) > 0) {
			messages = messages[:len(messages)-1]
			continue
		}
		break
	}
	return messages
}

// truncateHistory keeps the last maxExchanges user exchanges, cutting
// only where a user message opens a completed exchange so a tool call
// sequence is never split from its results.
func truncateHistory(messages []domain.ChatMessage) []domain.ChatMessage {
	limit := maxExchanges * 3
	if len(messages) <= limit {
		return messages
	}

	var cuts []int
	for i, msg := range messages {
		if msg.Role != domain.RoleUser {
			continue
		}
		if i == 0 || messages[i-1].Role != domain.RoleTool {
			cuts = append(cuts, i)
		}
	}
	if len(cuts) == 0 {
		// No safe boundary at all; bound growth over preserving pairing.
		return messages[len(messages)-limit:]
	}
	if len(cuts) <= maxExchanges {
		return messages
	}
	return messages[cuts[len(cuts)-maxExchanges]:]
}
