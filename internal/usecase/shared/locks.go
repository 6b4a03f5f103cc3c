package shared

import "sync"

// KeyedLocks serializes work per key: session ids for lifecycle
// transitions, conversation keys for coordinator turns. The store
// already guards individual writes; this closes the read-check-write
// window between loading state and persisting its successor.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLocks creates an empty lock table.
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for id and returns its unlock func.
func (s *KeyedLocks) Lock(id string) func() {
	s.mu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
