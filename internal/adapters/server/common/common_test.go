package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/evanschultz/tagboard/internal/adapters/storage/memory"
	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
)

// TestEventRequestDecoding verifies wire intents map onto board events.
func TestEventRequestDecoding(t *testing.T) {
	ev, err := EventRequest{Type: "dropOn", Status: "progress"}.Event()
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if drop, ok := ev.(board.DropOn); !ok || drop.Status != domain.StatusInProgress {
		t.Fatalf("unexpected event %#v", ev)
	}

	ev, err = EventRequest{Type: "submitCreate", Title: "Write", Tags: []string{"docs"}}.Event()
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if create, ok := ev.(board.SubmitCreate); !ok || create.Status != domain.StatusTodo || create.Title != "Write" {
		t.Fatalf("unexpected event %#v", ev)
	}

	ev, err = EventRequest{Type: "confirmDelete", TaskID: "t1"}.Event()
	if confirm, ok := ev.(board.ConfirmDelete); err != nil || !ok || confirm.TaskID != "t1" {
		t.Fatalf("Event() = %#v, %v", ev, err)
	}

	ev, err = EventRequest{Type: "moveTask", TaskID: "t1", Status: "done"}.Event()
	if move, ok := ev.(board.MoveTask); err != nil || !ok || move.TaskID != "t1" || move.Status != domain.StatusDone {
		t.Fatalf("Event() = %#v, %v", ev, err)
	}
}

// TestEventRequestRejectsBadPayloads verifies malformed requests fail with ErrInvalidRequest.
func TestEventRequestRejectsBadPayloads(t *testing.T) {
	bad := map[string]EventRequest{
		"missing type":    {},
		"unknown type":    {Type: "explode"},
		"missing status":  {Type: "dropOn"},
		"invalid status":  {Type: "toggleColumn", Status: "blocked"},
		"missing task id": {Type: "deleteTask"},
		"bare confirm":    {Type: "confirmDelete"},
		"move no status":  {Type: "moveTask", TaskID: "t1"},
		"move no task":    {Type: "moveTask", Status: "done"},
		"missing tag":     {Type: "selectTag"},
		"edit status":     {Type: "submitEdit", TaskID: "t1", Title: "x"},
	}
	for name, req := range bad {
		if _, err := req.Event(); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%s: expected ErrInvalidRequest, got %v", name, err)
		}
	}
	if _, err := (EventRequest{Type: "dropOn", Status: "blocked"}).Event(); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected wrapped ErrInvalidStatus, got %v", err)
	}
}

// TestNewBoardView verifies snapshot conversion keeps columns, editor, and confirm state.
func TestNewBoardView(t *testing.T) {
	ctx := context.Background()
	n := 0
	svc := app.NewService(memory.New(), func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}, nil)
	b := board.New(svc, board.WithHiddenColumns(domain.StatusDone))
	task, err := b.DispatchTask(ctx, board.SubmitCreate{Title: "Write", Tags: []string{"docs"}, Status: domain.StatusTodo})
	if err != nil {
		t.Fatalf("DispatchTask() error = %v", err)
	}
	for _, ev := range []board.Event{board.DeleteTask{TaskID: task.ID}, board.EditTask{TaskID: task.ID}} {
		if err := b.Dispatch(ctx, ev); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	snap, err := b.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	view := NewBoardView(snap)
	if len(view.Columns) != 2 || view.Columns[0].Count != 1 || view.Columns[0].Tasks[0].ID != task.ID {
		t.Fatalf("unexpected columns %#v", view.Columns)
	}
	if view.ColumnVisibility["done"] || !view.ColumnVisibility["todo"] {
		t.Fatalf("unexpected visibility %#v", view.ColumnVisibility)
	}
	if view.PendingDelete != task.ID {
		t.Fatalf("expected pending delete %q, got %q", task.ID, view.PendingDelete)
	}
	if view.Editor == nil || view.Editor.Mode != "editing" || view.Editor.TaskID != task.ID || view.Editor.Title != "Write" {
		t.Fatalf("unexpected editor %#v", view.Editor)
	}
}

// TestRequireTask verifies lookups ignore the tag filter and map misses to ErrNotFound.
func TestRequireTask(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.New(), func() string { return "t1" }, nil)
	if _, err := svc.CreateTask(ctx, app.CreateTaskInput{Title: "Write", Status: domain.StatusTodo}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := RequireTask(ctx, svc, "t1"); err != nil {
		t.Fatalf("RequireTask() error = %v", err)
	}
	_, err := RequireTask(ctx, svc, "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !IsConflict(fmt.Errorf("wrap: %w", board.ErrDeleteNotPending)) || IsConflict(err) {
		t.Fatal("expected only ErrDeleteNotPending to classify as conflict")
	}
	if !IsValidationError(fmt.Errorf("wrap: %w", domain.ErrDuplicateTag)) {
		t.Fatal("expected duplicate tag to classify as validation")
	}
}
