package app

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/evanschultz/tagboard/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Collection is one immutable revision of the task store.
// Every successful mutation produces a new Collection with a higher Version.
type Collection struct {
	Version uint64
	Tasks   []domain.Task
}

// Task returns the task with the given id.
func (c Collection) Task(id string) (domain.Task, bool) {
	for _, task := range c.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return domain.Task{}, false
}

// Len returns the number of tasks in the revision.
func (c Collection) Len() int {
	return len(c.Tasks)
}

// Service owns the task collection and serializes every mutation.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock

	mu     sync.Mutex
	loaded bool
	cur    Collection
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		idGen: idGen,
		clock: clock,
	}
}

// CreateTaskInput holds input values for create task operations.
type CreateTaskInput struct {
	Title  string
	Tags   []string
	Status domain.Status
}

// UpdateTaskInput holds input values for update task operations.
type UpdateTaskInput struct {
	TaskID string
	Title  string
	Tags   []string
	Status domain.Status
}

// Collection returns the current revision, loading it from the repository on first use.
func (s *Service) Collection(ctx context.Context) (Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return Collection{}, err
	}
	return s.cur, nil
}

// CreateTask appends a new task with a fresh id.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return domain.Task{}, err
	}

	task, err := domain.NewTask(domain.TaskInput{
		ID:     s.idGen(),
		Title:  in.Title,
		Tags:   in.Tags,
		Status: in.Status,
	}, s.clock())
	if err != nil {
		return domain.Task{}, err
	}
	if _, exists := s.cur.Task(task.ID); exists {
		return domain.Task{}, domain.ErrInvalidID
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	s.commitLocked(append(cloneTasks(s.cur.Tasks), task.Clone()))
	return task, nil
}

// UpdateTask replaces the title, tags, and status of an existing task.
func (s *Service) UpdateTask(ctx context.Context, in UpdateTaskInput) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, in.TaskID, func(task *domain.Task, now time.Time) error {
		return task.UpdateDetails(in.Title, in.Tags, in.Status, now)
	})
}

// SetTaskStatus changes only the status of an existing task.
func (s *Service) SetTaskStatus(ctx context.Context, taskID string, status domain.Status) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, taskID, func(task *domain.Task, now time.Time) error {
		return task.SetStatus(status, now)
	})
}

// RemoveTask deletes a task. Removing an absent id is a no-op.
func (s *Service) RemoveTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	taskID = strings.TrimSpace(taskID)
	idx := slices.IndexFunc(s.cur.Tasks, func(t domain.Task) bool { return t.ID == taskID })
	if idx < 0 {
		return nil
	}
	if err := s.repo.DeleteTask(ctx, taskID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	next := cloneTasks(s.cur.Tasks)
	next = slices.Delete(next, idx, idx+1)
	s.commitLocked(next)
	return nil
}

// mutateLocked applies fn to a copy of the stored task and commits the result.
func (s *Service) mutateLocked(ctx context.Context, taskID string, fn func(*domain.Task, time.Time) error) (domain.Task, error) {
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return domain.Task{}, err
	}
	taskID = strings.TrimSpace(taskID)
	idx := slices.IndexFunc(s.cur.Tasks, func(t domain.Task) bool { return t.ID == taskID })
	if idx < 0 {
		return domain.Task{}, ErrNotFound
	}
	task := s.cur.Tasks[idx].Clone()
	if err := fn(&task, s.clock()); err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	next := cloneTasks(s.cur.Tasks)
	next[idx] = task.Clone()
	s.commitLocked(next)
	return task, nil
}

// ensureLoadedLocked reads the initial revision from the repository once.
func (s *Service) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.cur = Collection{Version: 1, Tasks: cloneTasks(tasks)}
	s.loaded = true
	return nil
}

// commitLocked replaces the current revision wholesale.
func (s *Service) commitLocked(tasks []domain.Task) {
	s.cur = Collection{
		Version: s.cur.Version + 1,
		Tasks:   tasks,
	}
}

// cloneTasks deep-copies tasks so revisions never share tag slices.
func cloneTasks(in []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(in)+1)
	for _, task := range in {
		out = append(out, task.Clone())
	}
	return out
}
