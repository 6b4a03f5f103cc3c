package jsonstore

import (
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// MemoryStore implements domain.MemoryRepository on the shared store.
type MemoryStore struct {
	s *Store
}

// Ensure MemoryStore implements domain.MemoryRepository.
var _ domain.MemoryRepository = (*MemoryStore)(nil)

// Insert stores an entry and assigns its id.
func (m *MemoryStore) Insert(entry *domain.MemoryEntry) error {
	return m.s.withLockWrite(func(data *storeData) error {
		entry.ID = fmt.Sprintf("m-%08d", data.Meta.NextMemoryID)
		data.Meta.NextMemoryID++
		data.Memory[entry.ID] = entry
		return nil
	})
}

// List returns entries, newest first, optionally filtered by task slug.
func (m *MemoryStore) List(taskSlug string) ([]*domain.MemoryEntry, error) {
	var entries []*domain.MemoryEntry
	err := m.s.withLock(func(data *storeData) error {
		for id, entry := range data.Memory {
			if taskSlug != "" && entry.TaskSlug != taskSlug {
				continue
			}
			entry.ID = id
			entries = append(entries, entry)
		}
		return nil
	})

	sortNewestFirst(entries)
	return entries, err
}

// ListForTask returns the newest limit task-scoped entries.
func (m *MemoryStore) ListForTask(taskSlug string, limit int) ([]*domain.MemoryEntry, error) {
	var entries []*domain.MemoryEntry
	err := m.s.withLock(func(data *storeData) error {
		for id, entry := range data.Memory {
			if entry.Scope != domain.ScopeTask || entry.TaskSlug != taskSlug {
				continue
			}
			entry.ID = id
			entries = append(entries, entry)
		}
		return nil
	})

	sortNewestFirst(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, err
}

// Search returns entries whose key or content contains the query,
// case-insensitively.
func (m *MemoryStore) Search(query string) ([]*domain.MemoryEntry, error) {
	q := strings.ToLower(query)
	var entries []*domain.MemoryEntry
	err := m.s.withLock(func(data *storeData) error {
		for id, entry := range data.Memory {
			if !strings.Contains(strings.ToLower(entry.Key), q) &&
				!strings.Contains(strings.ToLower(entry.Content), q) {
				continue
			}
			entry.ID = id
			entries = append(entries, entry)
		}
		return nil
	})

	sortNewestFirst(entries)
	return entries, err
}

// Delete removes an entry by id.
func (m *MemoryStore) Delete(id string) error {
	return m.s.withLockWrite(func(data *storeData) error {
		if _, ok := data.Memory[id]; !ok {
			return domain.ErrNotFound
		}
		delete(data.Memory, id)
		return nil
	})
}

// sortNewestFirst orders entries by descending id. Ids are zero-padded
// counters, so lexicographic order matches insertion order.
func sortNewestFirst(entries []*domain.MemoryEntry) {
	slices.SortFunc(entries, func(a, b *domain.MemoryEntry) int {
		return strings.Compare(b.ID, a.ID)
	})
}
