package board

import (
	"slices"
	"testing"

	"github.com/evanschultz/tagboard/internal/domain"
)

func TestProjectionPartitionsTasks(t *testing.T) {
	tasks := sampleTasks()
	byStatus := ProjectAll(tasks)
	total := 0
	for _, status := range domain.Statuses() {
		for _, task := range byStatus[status] {
			if task.Status != status {
				t.Fatalf("task %s in %s column has status %s", task.ID, status, task.Status)
			}
		}
		total += len(byStatus[status])
	}
	if total != len(tasks) {
		t.Fatalf("expected %d projected tasks, got %d", len(tasks), total)
	}
	if got := ids(byStatus[domain.StatusTodo]); !slices.Equal(got, []string{"1", "4"}) {
		t.Fatalf("unexpected todo order %v", got)
	}
}

func TestColumnsRespectVisibility(t *testing.T) {
	tasks := sampleTasks()
	cols := Columns(tasks, DefaultVisibility())
	if len(cols) != 3 || cols[0].Status != domain.StatusTodo || cols[2].Label != "Done" {
		t.Fatalf("unexpected columns %#v", cols)
	}

	hidden := HiddenVisibility(domain.StatusInProgress)
	cols = Columns(tasks, hidden)
	if len(cols) != 2 || cols[1].Status != domain.StatusDone {
		t.Fatalf("expected in-progress hidden, got %#v", cols)
	}

	shown := hidden.Toggle(domain.StatusInProgress)
	if !shown.Visible(domain.StatusInProgress) || hidden.Visible(domain.StatusInProgress) {
		t.Fatal("expected Toggle to return a new map and leave the original alone")
	}
}

func TestColumnVisibilityMissingEntriesAreVisible(t *testing.T) {
	var v ColumnVisibility
	if !v.Visible(domain.StatusDone) {
		t.Fatal("expected nil visibility to show every column")
	}
	if v.Toggle(domain.StatusDone).Visible(domain.StatusDone) {
		t.Fatal("expected toggled column hidden")
	}
}
