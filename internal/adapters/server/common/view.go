package common

import (
	"time"

	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
)

// TaskView is the wire form of one task.
type TaskView struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Tags      []string      `json:"tags"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ColumnView is the wire form of one rendered column.
type ColumnView struct {
	Status domain.Status `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
	Tasks  []TaskView    `json:"tasks"`
}

// EditorView is the wire form of an open task editor.
type EditorView struct {
	Mode       string        `json:"mode"`
	TaskID     string        `json:"task_id,omitempty"`
	Title      string        `json:"title"`
	Status     domain.Status `json:"status"`
	Tags       []string      `json:"tags"`
	PendingTag string        `json:"pending_tag,omitempty"`
	Warning    string        `json:"warning,omitempty"`
}

// BoardView is the wire form of a board snapshot.
type BoardView struct {
	Version          uint64          `json:"version"`
	Columns          []ColumnView    `json:"columns"`
	AvailableTags    []string        `json:"available_tags"`
	SelectedTags     []string        `json:"selected_tags"`
	ColumnVisibility map[string]bool `json:"column_visibility"`
	Editor           *EditorView     `json:"editor,omitempty"`
	PendingDelete    string          `json:"pending_delete,omitempty"`
	Dragging         string          `json:"dragging,omitempty"`
	Expanded         []string        `json:"expanded"`
}

// NewTaskView converts one domain task.
func NewTaskView(task domain.Task) TaskView {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskView{
		ID:        task.ID,
		Title:     task.Title,
		Tags:      append([]string(nil), tags...),
		Status:    task.Status,
		CreatedAt: task.CreatedAt.UTC(),
		UpdatedAt: task.UpdatedAt.UTC(),
	}
}

// NewTaskViews converts tasks in order.
func NewTaskViews(tasks []domain.Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskView(task))
	}
	return out
}

// NewBoardView converts a snapshot into its wire form.
func NewBoardView(snap board.Snapshot) BoardView {
	view := BoardView{
		Version:          snap.Version,
		Columns:          make([]ColumnView, 0, len(snap.Columns)),
		AvailableTags:    nonNil(snap.AvailableTags),
		SelectedTags:     nonNil(snap.SelectedTags),
		ColumnVisibility: map[string]bool{},
		Dragging:         snap.Dragging,
		Expanded:         nonNil(snap.Expanded),
	}
	for _, col := range snap.Columns {
		view.Columns = append(view.Columns, ColumnView{
			Status: col.Status,
			Label:  col.Label,
			Count:  len(col.Tasks),
			Tasks:  NewTaskViews(col.Tasks),
		})
	}
	for _, status := range domain.Statuses() {
		view.ColumnVisibility[string(status)] = snap.ColumnVisibility.Visible(status)
	}
	if taskID, ok := board.PendingDelete(snap.Confirm); ok {
		view.PendingDelete = taskID
	}
	if draft, ok := board.DraftOf(snap.Editor); ok {
		ed := &EditorView{
			Mode:       "creating",
			Title:      draft.Title,
			Status:     draft.Status,
			Tags:       nonNil(draft.Tags.Tags),
			PendingTag: draft.Tags.Pending,
		}
		if editing, ok := snap.Editor.(board.EditorEditing); ok {
			ed.Mode = "editing"
			ed.TaskID = editing.TaskID
		}
		if draft.Tags.Warning != nil {
			ed.Warning = draft.Tags.Warning.Error()
		}
		view.Editor = ed
	}
	return view
}

// nonNil returns a copy of in that encodes as [] when empty.
func nonNil(in []string) []string {
	return append([]string{}, in...)
}
