package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/squad/internal/domain"
)

// StoreMemoryInput contains the parameters for storing a memory entry.
// Fields are ordered to minimize memory padding.
type StoreMemoryInput struct {
	Key       string
	Content   string
	Scope     string // task, session, global; inferred from owners when empty
	TaskSlug  string
	SessionID string
}

// StoreMemoryOutput contains the stored entry with its assigned id.
type StoreMemoryOutput struct {
	Entry *domain.MemoryEntry
}

// StoreMemory is the use case for persisting shared context for
// future sessions.
type StoreMemory struct {
	memory domain.MemoryRepository
	clock  domain.Clock
	logger *slog.Logger
}

// NewStoreMemory creates a new StoreMemory use case.
func NewStoreMemory(memory domain.MemoryRepository, clock domain.Clock, logger *slog.Logger) *StoreMemory {
	return &StoreMemory{memory: memory, clock: clock, logger: logger}
}

// Execute validates and stores the entry.
func (uc *StoreMemory) Execute(_ context.Context, in StoreMemoryInput) (*StoreMemoryOutput, error) {
	scope := domain.MemoryScope(in.Scope)
	if in.Scope == "" {
		switch {
		case in.TaskSlug != "":
			scope = domain.ScopeTask
		case in.SessionID != "":
			scope = domain.ScopeSession
		default:
			scope = domain.ScopeGlobal
		}
	}

	entry := &domain.MemoryEntry{
		Created:   uc.clock.Now(),
		Key:       in.Key,
		Content:   in.Content,
		Scope:     scope,
		TaskSlug:  in.TaskSlug,
		SessionID: in.SessionID,
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("memory entry: %w", err)
	}
	if err := uc.memory.Insert(entry); err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}

	uc.logger.Info("memory stored", "key", entry.Key, "scope", entry.Scope)
	return &StoreMemoryOutput{Entry: entry}, nil
}
