package jsonstore

import (
	"slices"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// TaskStore implements domain.TaskRepository on the shared store.
type TaskStore struct {
	s *Store
}

// Ensure TaskStore implements domain.TaskRepository.
var _ domain.TaskRepository = (*TaskStore)(nil)

// FindBySlug retrieves a task by slug. Returns nil if not found.
func (t *TaskStore) FindBySlug(slug string) (*domain.Task, error) {
	var task *domain.Task
	err := t.s.withLock(func(data *storeData) error {
		if found, ok := data.Tasks[slug]; ok {
			task = found
			task.Slug = slug
		}
		return nil
	})
	return task, err
}

// List retrieves tasks sorted by slug. Deleted tasks are always
// hidden; archived ones only show when asked for.
func (t *TaskStore) List(includeArchived bool) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := t.s.withLock(func(data *storeData) error {
		for slug, task := range data.Tasks {
			if task.Status == domain.TaskDeleted {
				continue
			}
			if task.Status == domain.TaskArchived && !includeArchived {
				continue
			}
			task.Slug = slug
			tasks = append(tasks, task)
		}
		return nil
	})

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return strings.Compare(a.Slug, b.Slug)
	})

	return tasks, err
}

// Insert creates a task. The slug stays claimed even by archived and
// deleted tasks so history never gets silently overwritten.
func (t *TaskStore) Insert(task *domain.Task) error {
	return t.s.withLockWrite(func(data *storeData) error {
		if _, exists := data.Tasks[task.Slug]; exists {
			return domain.ErrDuplicateSlug
		}
		data.Tasks[task.Slug] = task
		return nil
	})
}

// Update overwrites an existing task.
func (t *TaskStore) Update(task *domain.Task) error {
	return t.s.withLockWrite(func(data *storeData) error {
		if _, exists := data.Tasks[task.Slug]; !exists {
			return domain.ErrNotFound
		}
		data.Tasks[task.Slug] = task
		return nil
	})
}

// UpdateStatus atomically sets the status and returns the updated
// task, or nil if the slug is unknown.
func (t *TaskStore) UpdateStatus(slug string, status domain.TaskStatus) (*domain.Task, error) {
	var task *domain.Task
	err := t.s.withLockWrite(func(data *storeData) error {
		found, ok := data.Tasks[slug]
		if !ok {
			return nil
		}
		found.Status = status
		found.Slug = slug
		task = found
		return nil
	})
	return task, err
}

// FindDependents returns tasks listing slug in their depends_on.
func (t *TaskStore) FindDependents(slug string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := t.s.withLock(func(data *storeData) error {
		for s, task := range data.Tasks {
			if task.DependsOnSlug(slug) {
				task.Slug = s
				tasks = append(tasks, task)
			}
		}
		return nil
	})

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return strings.Compare(a.Slug, b.Slug)
	})

	return tasks, err
}

// FindReady returns active tasks whose dependencies are all archived.
// A dependency on an unknown slug keeps the task blocked.
func (t *TaskStore) FindReady() ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := t.s.withLock(func(data *storeData) error {
		for slug, task := range data.Tasks {
			if task.Status != domain.TaskActive {
				continue
			}
			ready := true
			for _, dep := range task.DependsOn {
				d, ok := data.Tasks[dep]
				if !ok || d.Status != domain.TaskArchived {
					ready = false
					break
				}
			}
			if ready {
				task.Slug = slug
				tasks = append(tasks, task)
			}
		}
		return nil
	})

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return strings.Compare(a.Slug, b.Slug)
	})

	return tasks, err
}
