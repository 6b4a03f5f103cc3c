package jsonstore

import (
	"slices"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// WorkspaceStore implements domain.WorkspaceRepository on the shared
// store.
type WorkspaceStore struct {
	s *Store
}

// Ensure WorkspaceStore implements domain.WorkspaceRepository.
var _ domain.WorkspaceRepository = (*WorkspaceStore)(nil)

// Insert registers a workspace under its name.
func (w *WorkspaceStore) Insert(ws *domain.Workspace) error {
	return w.s.withLockWrite(func(data *storeData) error {
		data.Workspaces[ws.Name] = ws
		return nil
	})
}

// FindByPath retrieves a workspace by path. Returns nil if not
// registered.
func (w *WorkspaceStore) FindByPath(path string) (*domain.Workspace, error) {
	var workspace *domain.Workspace
	err := w.s.withLock(func(data *storeData) error {
		for name, ws := range data.Workspaces {
			if ws.Path == path {
				ws.Name = name
				workspace = ws
				return nil
			}
		}
		return nil
	})
	return workspace, err
}

// ListAll returns all registered workspaces sorted by name.
func (w *WorkspaceStore) ListAll() ([]*domain.Workspace, error) {
	var workspaces []*domain.Workspace
	err := w.s.withLock(func(data *storeData) error {
		for name, ws := range data.Workspaces {
			ws.Name = name
			workspaces = append(workspaces, ws)
		}
		return nil
	})

	slices.SortFunc(workspaces, func(a, b *domain.Workspace) int {
		return strings.Compare(a.Name, b.Name)
	})

	return workspaces, err
}

// Delete removes a workspace by name.
func (w *WorkspaceStore) Delete(name string) error {
	return w.s.withLockWrite(func(data *storeData) error {
		if _, ok := data.Workspaces[name]; !ok {
			return domain.ErrNotFound
		}
		delete(data.Workspaces, name)
		return nil
	})
}
