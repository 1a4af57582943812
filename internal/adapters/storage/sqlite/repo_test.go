package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestRepository_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	first, err := domain.NewTask(domain.TaskInput{ID: "t1", Title: "Draft proposal", Tags: []string{"docs", "api"}}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	second, err := domain.NewTask(domain.TaskInput{ID: "t0", Title: "Ship", Status: domain.StatusDone}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if err := repo.CreateTask(ctx, first); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if err := repo.CreateTask(ctx, second); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if err := repo.CreateTask(ctx, first); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID for duplicate id, got %v", err)
	}

	loaded, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if loaded.Title != "Draft proposal" || !slices.Equal(loaded.Tags, []string{"docs", "api"}) || !loaded.CreatedAt.Equal(now) {
		t.Fatalf("unexpected loaded task %#v", loaded)
	}

	if err := loaded.SetStatus(domain.StatusInProgress, now.Add(time.Minute)); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if err := repo.UpdateTask(ctx, loaded); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t1" || tasks[1].ID != "t0" {
		t.Fatalf("expected insertion order, got %#v", tasks)
	}
	if tasks[0].Status != domain.StatusInProgress || !tasks[0].UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected updated task %#v", tasks[0])
	}
	if tasks[1].Tags == nil || len(tasks[1].Tags) != 0 {
		t.Fatalf("expected empty tag list, got %#v", tasks[1].Tags)
	}

	if err := repo.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := repo.GetTask(ctx, "t1"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTask(ctx, "t1"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.UpdateTask(ctx, loaded); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestRepository_InMemoryDatabasesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := openTestRepo(t)
	b := openTestRepo(t)
	task, err := domain.NewTask(domain.TaskInput{ID: "t1", Title: "only in a"}, time.Now())
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if err := a.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	tasks, err := b.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected second database empty, got %d tasks", len(tasks))
	}
}

func TestRepository_BacksService(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	svc := app.NewService(repo, func() string { return "fixed" }, nil)
	if _, err := svc.CreateTask(ctx, app.CreateTaskInput{Title: "through service", Tags: []string{"x"}}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if err := svc.RemoveTask(ctx, "fixed"); err != nil {
		t.Fatalf("RemoveTask() error = %v", err)
	}
	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected repository empty, got %#v", tasks)
	}
}
