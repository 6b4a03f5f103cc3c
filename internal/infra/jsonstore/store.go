// Package jsonstore persists all server state in a single JSON file
// guarded by an advisory file lock.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/squad/internal/domain"
)

// storeData represents the JSON file structure. Entity ids live as map
// keys, not in the values.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks         map[string]*domain.Task          `json:"tasks"`
	Sessions      map[string]*domain.Session       `json:"sessions"`
	Merges        map[string][]*domain.MergeRecord `json:"merges"` // Keyed by session id
	Memory        map[string]*domain.MemoryEntry   `json:"memory"`
	Usage         map[string]*domain.UsageEvent    `json:"usage"`
	Reports       map[string]*domain.SessionReport `json:"reports"` // Keyed by session id
	Events        map[string]*domain.AgentEvent    `json:"events"`
	Workspaces    map[string]*domain.Workspace     `json:"workspaces"`
	Conversations map[string]*domain.Conversation  `json:"conversations"`
	Meta          meta                             `json:"meta"`
}

// meta contains id counters. Generated ids are zero-padded so their
// lexicographic order matches insertion order.
type meta struct {
	NextMemoryID int `json:"nextMemoryID"`
	NextUsageID  int `json:"nextUsageID"`
	NextEventID  int `json:"nextEventID"`
}

// Store is the shared JSON file store. The typed views returned by
// Tasks, Sessions, and friends implement the repository interfaces on
// top of it.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Tasks returns the task repository view.
func (s *Store) Tasks() *TaskStore { return &TaskStore{s} }

// Sessions returns the session repository view.
func (s *Store) Sessions() *SessionStore { return &SessionStore{s} }

// Merges returns the merge record repository view.
func (s *Store) Merges() *MergeStore { return &MergeStore{s} }

// Memory returns the memory repository view.
func (s *Store) Memory() *MemoryStore { return &MemoryStore{s} }

// Usage returns the usage repository view.
func (s *Store) Usage() *UsageStore { return &UsageStore{s} }

// Reports returns the report repository view.
func (s *Store) Reports() *ReportStore { return &ReportStore{s} }

// Events returns the event repository view.
func (s *Store) Events() *EventStore { return &EventStore{s} }

// Workspaces returns the workspace repository view.
func (s *Store) Workspaces() *WorkspaceStore { return &WorkspaceStore{s} }

// Conversations returns the conversation repository view.
func (s *Store) Conversations() *ConversationStore { return &ConversationStore{s} }

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(emptyData())
}

func emptyData() *storeData {
	return &storeData{
		Tasks:         make(map[string]*domain.Task),
		Sessions:      make(map[string]*domain.Session),
		Merges:        make(map[string][]*domain.MergeRecord),
		Memory:        make(map[string]*domain.MemoryEntry),
		Usage:         make(map[string]*domain.UsageEvent),
		Reports:       make(map[string]*domain.SessionReport),
		Events:        make(map[string]*domain.AgentEvent),
		Workspaces:    make(map[string]*domain.Workspace),
		Conversations: make(map[string]*domain.Conversation),
		Meta:          meta{NextMemoryID: 1, NextUsageID: 1, NextEventID: 1},
	}
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	// Ensure maps are initialized
	if data.Tasks == nil {
		data.Tasks = make(map[string]*domain.Task)
	}
	if data.Sessions == nil {
		data.Sessions = make(map[string]*domain.Session)
	}
	if data.Merges == nil {
		data.Merges = make(map[string][]*domain.MergeRecord)
	}
	if data.Memory == nil {
		data.Memory = make(map[string]*domain.MemoryEntry)
	}
	if data.Usage == nil {
		data.Usage = make(map[string]*domain.UsageEvent)
	}
	if data.Reports == nil {
		data.Reports = make(map[string]*domain.SessionReport)
	}
	if data.Events == nil {
		data.Events = make(map[string]*domain.AgentEvent)
	}
	if data.Workspaces == nil {
		data.Workspaces = make(map[string]*domain.Workspace)
	}
	if data.Conversations == nil {
		data.Conversations = make(map[string]*domain.Conversation)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
