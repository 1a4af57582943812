package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/domain"
)

// Repository keeps tasks in process memory in insertion order.
type Repository struct {
	mu    sync.RWMutex
	tasks []domain.Task
}

// New constructs an empty repository.
func New() *Repository {
	return &Repository{}
}

// CreateTask appends a task. An existing id is rejected.
func (r *Repository) CreateTask(_ context.Context, task domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(task.ID) >= 0 {
		return domain.ErrInvalidID
	}
	r.tasks = append(r.tasks, task.Clone())
	return nil
}

func (r *Repository) UpdateTask(_ context.Context, task domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(task.ID)
	if idx < 0 {
		return app.ErrNotFound
	}
	r.tasks[idx] = task.Clone()
	return nil
}

func (r *Repository) GetTask(_ context.Context, id string) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexLocked(strings.TrimSpace(id))
	if idx < 0 {
		return domain.Task{}, app.ErrNotFound
	}
	return r.tasks[idx].Clone(), nil
}

func (r *Repository) ListTasks(context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, task.Clone())
	}
	return out, nil
}

func (r *Repository) DeleteTask(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(strings.TrimSpace(id))
	if idx < 0 {
		return app.ErrNotFound
	}
	r.tasks = slices.Delete(r.tasks, idx, idx+1)
	return nil
}

func (r *Repository) indexLocked(id string) int {
	return slices.IndexFunc(r.tasks, func(t domain.Task) bool { return t.ID == id })
}
