package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/evanschultz/tagboard/internal/domain"
)

type fakeRepo struct {
	tasks     []domain.Task
	createErr error
	updates   int
	deletes   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (f *fakeRepo) CreateTask(_ context.Context, t domain.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tasks = append(f.tasks, t.Clone())
	return nil
}

func (f *fakeRepo) UpdateTask(_ context.Context, t domain.Task) error {
	for idx := range f.tasks {
		if f.tasks[idx].ID == t.ID {
			f.tasks[idx] = t.Clone()
			f.updates++
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) GetTask(_ context.Context, id string) (domain.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return domain.Task{}, ErrNotFound
}

func (f *fakeRepo) ListTasks(context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (f *fakeRepo) DeleteTask(_ context.Context, id string) error {
	for idx := range f.tasks {
		if f.tasks[idx].ID == id {
			f.tasks = slices.Delete(f.tasks, idx, idx+1)
			f.deletes++
			return nil
		}
	}
	return ErrNotFound
}

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func fixedClock() Clock {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestServiceCreateAppendsWithFreshIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), sequentialIDs(), fixedClock())

	first, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Draft proposal", Tags: []string{"docs"}, Status: domain.StatusTodo})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	second, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Ship", Status: domain.StatusDone})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected unique ids, got %q twice", first.ID)
	}

	cur, err := svc.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if cur.Len() != 2 || cur.Tasks[0].ID != first.ID || cur.Tasks[1].ID != second.ID {
		t.Fatalf("unexpected collection order %#v", cur.Tasks)
	}
	if cur.Version != 3 {
		t.Fatalf("expected version 3 after two creates, got %d", cur.Version)
	}
}

func TestServiceCreateValidates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), sequentialIDs(), fixedClock())
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "  "}); err != domain.ErrInvalidTitle {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "x", Status: "blocked"}); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "x", Tags: []string{"a", "a"}}); !errors.Is(err, domain.ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
	cur, err := svc.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if cur.Len() != 0 || cur.Version != 1 {
		t.Fatalf("expected untouched collection, got %#v", cur)
	}
}

func TestServiceRejectsIDCollision(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), func() string { return "same" }, fixedClock())
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "a"}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "b"}); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestServiceMutationsReplaceRevision(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequentialIDs(), fixedClock())
	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "a", Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	before, err := svc.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}

	updated, err := svc.UpdateTask(ctx, UpdateTaskInput{TaskID: task.ID, Title: "b", Tags: []string{"y", "z"}, Status: domain.StatusInProgress})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated.Title != "b" || updated.Status != domain.StatusInProgress || !slices.Equal(updated.Tags, []string{"y", "z"}) {
		t.Fatalf("unexpected updated task %#v", updated)
	}
	after, err := svc.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if after.Version <= before.Version {
		t.Fatalf("expected version to advance, before=%d after=%d", before.Version, after.Version)
	}
	if before.Tasks[0].Title != "a" || before.Tasks[0].Tags[0] != "x" {
		t.Fatalf("expected previous revision untouched, got %#v", before.Tasks[0])
	}
	if repo.updates != 1 {
		t.Fatalf("expected one repository update, got %d", repo.updates)
	}
}

func TestServiceSetStatusChangesOnlyStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), sequentialIDs(), fixedClock())
	a, _ := svc.CreateTask(ctx, CreateTaskInput{Title: "a", Tags: []string{"docs"}})
	b, _ := svc.CreateTask(ctx, CreateTaskInput{Title: "b"})

	moved, err := svc.SetTaskStatus(ctx, a.ID, domain.StatusDone)
	if err != nil {
		t.Fatalf("SetTaskStatus() error = %v", err)
	}
	if moved.Status != domain.StatusDone || moved.Title != "a" || !slices.Equal(moved.Tags, []string{"docs"}) {
		t.Fatalf("unexpected moved task %#v", moved)
	}
	cur, _ := svc.Collection(ctx)
	other, ok := cur.Task(b.ID)
	if !ok || other.Status != domain.StatusTodo {
		t.Fatalf("expected other task untouched, got %#v", other)
	}
	if _, err := svc.SetTaskStatus(ctx, a.ID, "archived"); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestServiceMissingIDs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequentialIDs(), fixedClock())
	if _, err := svc.UpdateTask(ctx, UpdateTaskInput{TaskID: "missing", Title: "x", Status: domain.StatusTodo}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SetTaskStatus(ctx, "missing", domain.StatusDone); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	before, _ := svc.Collection(ctx)
	if err := svc.RemoveTask(ctx, "missing"); err != nil {
		t.Fatalf("RemoveTask() error = %v", err)
	}
	after, _ := svc.Collection(ctx)
	if after.Version != before.Version {
		t.Fatalf("expected no new revision for absent id, before=%d after=%d", before.Version, after.Version)
	}
	if repo.deletes != 0 {
		t.Fatalf("expected no repository delete, got %d", repo.deletes)
	}
}

func TestServiceRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), sequentialIDs(), fixedClock())
	a, _ := svc.CreateTask(ctx, CreateTaskInput{Title: "a"})
	b, _ := svc.CreateTask(ctx, CreateTaskInput{Title: "b"})
	if err := svc.RemoveTask(ctx, a.ID); err != nil {
		t.Fatalf("RemoveTask() error = %v", err)
	}
	if err := svc.RemoveTask(ctx, a.ID); err != nil {
		t.Fatalf("second RemoveTask() error = %v", err)
	}
	cur, _ := svc.Collection(ctx)
	if cur.Len() != 1 || cur.Tasks[0].ID != b.ID {
		t.Fatalf("unexpected collection after remove %#v", cur.Tasks)
	}
}

func TestServiceLoadsExistingRepositoryTasks(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	seed, err := domain.NewTask(domain.TaskInput{ID: "seed", Title: "from repo", Status: domain.StatusDone}, time.Now())
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	repo.tasks = append(repo.tasks, seed)
	svc := NewService(repo, sequentialIDs(), fixedClock())
	cur, err := svc.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if cur.Len() != 1 || cur.Tasks[0].ID != "seed" {
		t.Fatalf("expected repository task loaded, got %#v", cur.Tasks)
	}
}

func TestServiceRepositoryErrorLeavesRevision(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.createErr = errors.New("disk gone")
	svc := NewService(repo, sequentialIDs(), fixedClock())
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "a"}); err == nil {
		t.Fatal("expected repository error")
	}
	cur, _ := svc.Collection(ctx)
	if cur.Len() != 0 || cur.Version != 1 {
		t.Fatalf("expected unchanged collection, got %#v", cur)
	}
}
