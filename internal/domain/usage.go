package domain

import "time"

// UsageEvent records one LLM provider call for cost tracking.
// Fields are ordered to minimize memory padding.
type UsageEvent struct {
	Created          time.Time `json:"created"`
	ID               string    `json:"-"` // Stored as map key
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	SessionID        string    `json:"sessionID,omitempty"`
	PromptTokens     int64     `json:"promptTokens"`
	CompletionTokens int64     `json:"completionTokens"`
}

// UsageTotals aggregates usage events per provider/model pair.
// Fields are ordered to minimize memory padding.
type UsageTotals struct {
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	Calls            int64  `json:"calls"`
	PromptTokens     int64  `json:"promptTokens"`
	CompletionTokens int64  `json:"completionTokens"`
}
