package jsonstore

import (
	"slices"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// SessionStore implements domain.SessionRepository on the shared store.
type SessionStore struct {
	s *Store
}

// Ensure SessionStore implements domain.SessionRepository.
var _ domain.SessionRepository = (*SessionStore)(nil)

// FindByID retrieves a session by id. Returns nil if not found.
func (s *SessionStore) FindByID(id string) (*domain.Session, error) {
	var session *domain.Session
	err := s.s.withLock(func(data *storeData) error {
		if found, ok := data.Sessions[id]; ok {
			session = found
			session.ID = id
		}
		return nil
	})
	return session, err
}

// List retrieves all sessions, newest first.
func (s *SessionStore) List() ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := s.s.withLock(func(data *storeData) error {
		for id, session := range data.Sessions {
			session.ID = id
			sessions = append(sessions, session)
		}
		return nil
	})

	slices.SortFunc(sessions, func(a, b *domain.Session) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return sessions, err
}

// ListByTask retrieves the sessions owned by a task, newest first.
func (s *SessionStore) ListByTask(taskSlug string) ([]*domain.Session, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var sessions []*domain.Session
	for _, session := range all {
		if session.TaskSlug == taskSlug {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// Insert creates a session record.
func (s *SessionStore) Insert(session *domain.Session) error {
	return s.s.withLockWrite(func(data *storeData) error {
		data.Sessions[session.ID] = session
		return nil
	})
}

// Update overwrites an existing session.
func (s *SessionStore) Update(session *domain.Session) error {
	return s.s.withLockWrite(func(data *storeData) error {
		if _, exists := data.Sessions[session.ID]; !exists {
			return domain.ErrNotFound
		}
		data.Sessions[session.ID] = session
		return nil
	})
}

// UpdateLifecycle atomically sets the lifecycle and returns the
// updated session, or nil if the id is unknown.
func (s *SessionStore) UpdateLifecycle(id string, lifecycle domain.Lifecycle) (*domain.Session, error) {
	var session *domain.Session
	err := s.s.withLockWrite(func(data *storeData) error {
		found, ok := data.Sessions[id]
		if !ok {
			return nil
		}
		found.Lifecycle = lifecycle
		found.ID = id
		session = found
		return nil
	})
	return session, err
}
