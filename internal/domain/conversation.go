package domain

import (
	"encoding/json"
	"time"
)

// Chat message roles, matching the OpenAI-compatible wire vocabulary
// the coordinator's providers speak.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a structured function invocation requested by the model.
// Fields are ordered to minimize memory padding.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ChatMessage is one turn in a coordinator conversation. Tool results
// carry the ToolCallID of the call they answer; assistant turns that
// request tools carry the raw ToolCalls.
// Fields are ordered to minimize memory padding.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"toolCallID,omitempty"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
}

// Conversation is the persisted message history for one counterpart,
// keyed "channel:sender".
// Fields are ordered to minimize memory padding.
type Conversation struct {
	Updated  time.Time     `json:"updated"`
	Key      string        `json:"-"` // Stored as map key
	Messages []ChatMessage `json:"messages"`
}

// ConversationKey builds the canonical conversation key.
func ConversationKey(channel, senderID string) string {
	return channel + ":" + senderID
}
