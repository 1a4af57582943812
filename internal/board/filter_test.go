package board

import (
	"slices"
	"testing"

	"github.com/evanschultz/tagboard/internal/domain"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", Title: "a", Tags: []string{"docs", "api"}, Status: domain.StatusTodo},
		{ID: "2", Title: "b", Tags: []string{"ui"}, Status: domain.StatusInProgress},
		{ID: "3", Title: "c", Tags: []string{"api", "Docs"}, Status: domain.StatusDone},
		{ID: "4", Title: "d", Status: domain.StatusTodo},
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestVisibleTasksEmptySelectionIsIdentity(t *testing.T) {
	tasks := sampleTasks()
	got := VisibleTasks(tasks, nil)
	if !slices.Equal(ids(got), ids(tasks)) {
		t.Fatalf("expected identity, got %v", ids(got))
	}
}

func TestVisibleTasksUnionSubsequence(t *testing.T) {
	tasks := sampleTasks()
	got := VisibleTasks(tasks, []string{"docs", "ui"})
	if !slices.Equal(ids(got), []string{"1", "2"}) {
		t.Fatalf("unexpected visible ids %v", ids(got))
	}
	got = VisibleTasks(tasks, []string{"api"})
	if !slices.Equal(ids(got), []string{"1", "3"}) {
		t.Fatalf("unexpected visible ids %v", ids(got))
	}
	if got := VisibleTasks(tasks, []string{"nothing"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestAvailableTagsFirstSeenOrder(t *testing.T) {
	got := AvailableTags(sampleTasks())
	want := []string{"docs", "api", "ui", "Docs"}
	if !slices.Equal(got, want) {
		t.Fatalf("AvailableTags() = %v, want %v", got, want)
	}
	if got := AvailableTags(nil); len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}

func TestSuggestTags(t *testing.T) {
	available := []string{"docs", "api", "ui", "Docs"}
	if got := SuggestTags(available, []string{"api"}, ""); !slices.Equal(got, []string{"docs", "ui", "Docs"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	if got := SuggestTags(available, nil, "DO"); !slices.Equal(got, []string{"docs", "Docs"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	if got := SuggestTags(available, []string{"docs"}, "doc"); !slices.Equal(got, []string{"Docs"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
}
