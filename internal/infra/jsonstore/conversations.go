package jsonstore

import (
	"sort"

	"github.com/runoshun/squad/internal/domain"
)

// ConversationStore implements domain.ConversationRepository on the
// shared store.
type ConversationStore struct {
	s *Store
}

// Ensure ConversationStore implements domain.ConversationRepository.
var _ domain.ConversationRepository = (*ConversationStore)(nil)

// Load retrieves a conversation by key. Returns nil if the counterpart
// has no history yet.
func (c *ConversationStore) Load(key string) (*domain.Conversation, error) {
	var conversation *domain.Conversation
	err := c.s.withLock(func(data *storeData) error {
		if found, ok := data.Conversations[key]; ok {
			found.Key = key
			conversation = found
		}
		return nil
	})
	return conversation, err
}

// Save persists a conversation after a turn.
func (c *ConversationStore) Save(conversation *domain.Conversation) error {
	return c.s.withLockWrite(func(data *storeData) error {
		data.Conversations[conversation.Key] = conversation
		return nil
	})
}

// ListKeys returns every stored conversation key, sorted.
func (c *ConversationStore) ListKeys() ([]string, error) {
	var keys []string
	err := c.s.withLock(func(data *storeData) error {
		for key := range data.Conversations {
			keys = append(keys, key)
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}
