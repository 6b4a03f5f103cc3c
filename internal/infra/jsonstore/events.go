package jsonstore

import (
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// EventStore implements domain.EventRepository on the shared store.
type EventStore struct {
	s *Store
}

// Ensure EventStore implements domain.EventRepository.
var _ domain.EventRepository = (*EventStore)(nil)

// Insert stores an event and assigns its id.
func (e *EventStore) Insert(event *domain.AgentEvent) error {
	return e.s.withLockWrite(func(data *storeData) error {
		event.ID = fmt.Sprintf("e-%08d", data.Meta.NextEventID)
		data.Meta.NextEventID++
		data.Events[event.ID] = event
		return nil
	})
}

// ListUnacknowledged returns pending events, oldest first.
func (e *EventStore) ListUnacknowledged() ([]*domain.AgentEvent, error) {
	return e.list(func(event *domain.AgentEvent) bool {
		return !event.Acknowledged
	})
}

// ListBySession returns a session's events, oldest first.
func (e *EventStore) ListBySession(sessionID string) ([]*domain.AgentEvent, error) {
	return e.list(func(event *domain.AgentEvent) bool {
		return event.SessionID == sessionID
	})
}

// Acknowledge marks an event as seen.
func (e *EventStore) Acknowledge(id string) error {
	return e.s.withLockWrite(func(data *storeData) error {
		event, ok := data.Events[id]
		if !ok {
			return domain.ErrNotFound
		}
		event.Acknowledged = true
		return nil
	})
}

func (e *EventStore) list(keep func(*domain.AgentEvent) bool) ([]*domain.AgentEvent, error) {
	var events []*domain.AgentEvent
	err := e.s.withLock(func(data *storeData) error {
		for id, event := range data.Events {
			if !keep(event) {
				continue
			}
			event.ID = id
			events = append(events, event)
		}
		return nil
	})

	// Ids are zero-padded counters; ascending id order is insertion
	// order.
	slices.SortFunc(events, func(a, b *domain.AgentEvent) int {
		return strings.Compare(a.ID, b.ID)
	})

	return events, err
}
