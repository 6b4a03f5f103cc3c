package jsonstore

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runoshun/squad/internal/domain"
)

// UsageStore implements domain.UsageRepository on the shared store.
type UsageStore struct {
	s *Store
}

// Ensure UsageStore implements domain.UsageRepository.
var _ domain.UsageRepository = (*UsageStore)(nil)

// Insert stores an event and assigns its id.
func (u *UsageStore) Insert(event *domain.UsageEvent) error {
	return u.s.withLockWrite(func(data *storeData) error {
		event.ID = fmt.Sprintf("u-%08d", data.Meta.NextUsageID)
		data.Meta.NextUsageID++
		data.Usage[event.ID] = event
		return nil
	})
}

// ListRecent returns the newest limit events.
func (u *UsageStore) ListRecent(limit int) ([]*domain.UsageEvent, error) {
	var events []*domain.UsageEvent
	err := u.s.withLock(func(data *storeData) error {
		for id, event := range data.Usage {
			event.ID = id
			events = append(events, event)
		}
		return nil
	})

	slices.SortFunc(events, func(a, b *domain.UsageEvent) int {
		return strings.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, err
}

// AggregateSince sums events created at or after cutoff, grouped by
// provider and model.
func (u *UsageStore) AggregateSince(cutoff time.Time) ([]domain.UsageTotals, error) {
	return u.aggregate(func(e *domain.UsageEvent) bool {
		return !e.Created.Before(cutoff)
	})
}

// AggregateTotals sums all events grouped by provider and model.
func (u *UsageStore) AggregateTotals() ([]domain.UsageTotals, error) {
	return u.aggregate(func(*domain.UsageEvent) bool { return true })
}

func (u *UsageStore) aggregate(keep func(*domain.UsageEvent) bool) ([]domain.UsageTotals, error) {
	type key struct{ provider, model string }
	byKey := make(map[key]*domain.UsageTotals)

	err := u.s.withLock(func(data *storeData) error {
		for _, event := range data.Usage {
			if !keep(event) {
				continue
			}
			k := key{event.Provider, event.Model}
			t, ok := byKey[k]
			if !ok {
				t = &domain.UsageTotals{Provider: event.Provider, Model: event.Model}
				byKey[k] = t
			}
			t.Calls++
			t.PromptTokens += event.PromptTokens
			t.CompletionTokens += event.CompletionTokens
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	totals := make([]domain.UsageTotals, 0, len(byKey))
	for _, t := range byKey {
		totals = append(totals, *t)
	}
	slices.SortFunc(totals, func(a, b domain.UsageTotals) int {
		if c := strings.Compare(a.Provider, b.Provider); c != 0 {
			return c
		}
		return strings.Compare(a.Model, b.Model)
	})
	return totals, nil
}
