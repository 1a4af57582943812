package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/tagboard/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "tagboard.snapshot.v1"

// Snapshot is the JSON seed/export format of a board.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Tasks      []SnapshotTask `json:"tasks"`
}

// SnapshotTask represents snapshot task data used by this package.
type SnapshotTask struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Tags      []string      `json:"tags"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ExportSnapshot captures the current collection in creation order.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	cur, err := s.Collection(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Tasks:      make([]SnapshotTask, 0, len(cur.Tasks)),
	}
	for _, task := range cur.Tasks {
		snap.Tasks = append(snap.Tasks, snapshotTaskFromDomain(task))
	}
	return snap, nil
}

// ImportSnapshot appends every snapshot task after validating the whole payload.
// Tasks without an id receive a generated one.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	now := s.clock()
	taken := make(map[string]struct{}, len(s.cur.Tasks)+len(snap.Tasks))
	for _, task := range s.cur.Tasks {
		taken[task.ID] = struct{}{}
	}
	tasks := make([]domain.Task, 0, len(snap.Tasks))
	for idx, st := range snap.Tasks {
		task, err := st.toDomain(s.idGen, now)
		if err != nil {
			return fmt.Errorf("%w: tasks[%d]: %w", ErrInvalidSnapshot, idx, err)
		}
		if _, exists := taken[task.ID]; exists {
			return fmt.Errorf("%w: tasks[%d].id %q already exists", ErrInvalidSnapshot, idx, task.ID)
		}
		taken[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	next := cloneTasks(s.cur.Tasks)
	for _, task := range tasks {
		if err := s.repo.CreateTask(ctx, task); err != nil {
			// Keep the in-memory revision aligned with what reached the repository.
			if len(next) > len(s.cur.Tasks) {
				s.commitLocked(next)
			}
			return fmt.Errorf("import task %q: %w", task.ID, err)
		}
		next = append(next, task.Clone())
	}
	if len(tasks) > 0 {
		s.commitLocked(next)
	}
	return nil
}

// Validate checks the snapshot version, task fields, and id uniqueness.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	version := strings.TrimSpace(s.Version)
	if version != "" && version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, s.Version)
	}
	seen := map[string]struct{}{}
	for idx, task := range s.Tasks {
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("%w: tasks[%d].title: %w", ErrInvalidSnapshot, idx, domain.ErrInvalidTitle)
		}
		if task.Status != "" {
			if _, err := domain.ParseStatus(string(task.Status)); err != nil {
				return fmt.Errorf("%w: tasks[%d].status: %w", ErrInvalidSnapshot, idx, err)
			}
		}
		if _, err := domain.NormalizeTags(task.Tags); err != nil {
			return fmt.Errorf("%w: tasks[%d].tags: %w", ErrInvalidSnapshot, idx, err)
		}
		id := strings.TrimSpace(task.ID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate task id %q", ErrInvalidSnapshot, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// snapshotTaskFromDomain handles snapshot task from domain.
func snapshotTaskFromDomain(t domain.Task) SnapshotTask {
	return SnapshotTask{
		ID:        t.ID,
		Title:     t.Title,
		Tags:      append([]string{}, t.Tags...),
		Status:    t.Status,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

// toDomain converts a snapshot row into a validated task.
func (t SnapshotTask) toDomain(idGen IDGenerator, now time.Time) (domain.Task, error) {
	id := strings.TrimSpace(t.ID)
	if id == "" {
		id = idGen()
	}
	status := domain.StatusTodo
	if t.Status != "" {
		parsed, err := domain.ParseStatus(string(t.Status))
		if err != nil {
			return domain.Task{}, err
		}
		status = parsed
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:     id,
		Title:  t.Title,
		Tags:   t.Tags,
		Status: status,
	}, now)
	if err != nil {
		return domain.Task{}, err
	}
	if !t.CreatedAt.IsZero() {
		task.CreatedAt = t.CreatedAt.UTC()
	}
	if !t.UpdatedAt.IsZero() {
		task.UpdatedAt = t.UpdatedAt.UTC()
	}
	return task, nil
}
