package board

import "github.com/evanschultz/tagboard/internal/domain"

// Draft holds the in-progress values of the task editor.
type Draft struct {
	Title  string
	Status domain.Status
	Tags   TagDraft
}

func (d Draft) clone() Draft {
	d.Tags = d.Tags.clone()
	return d
}

// EditorState is one of EditorClosed, EditorCreating, or EditorEditing.
type EditorState interface {
	editorState()
}

// EditorClosed means no editor is open.
type EditorClosed struct{}

// EditorCreating is a create-task editor opened from a column.
type EditorCreating struct {
	DefaultStatus domain.Status
	Draft         Draft
}

// EditorEditing is an edit-task editor bound to an existing task.
type EditorEditing struct {
	TaskID string
	Draft  Draft
}

func (EditorClosed) editorState()   {}
func (EditorCreating) editorState() {}
func (EditorEditing) editorState()  {}

// EditorOpen reports whether state is a creating or editing editor.
func EditorOpen(state EditorState) bool {
	switch state.(type) {
	case EditorCreating, EditorEditing:
		return true
	default:
		return false
	}
}

// DraftOf returns the draft of an open editor.
func DraftOf(state EditorState) (Draft, bool) {
	switch s := state.(type) {
	case EditorCreating:
		return s.Draft, true
	case EditorEditing:
		return s.Draft, true
	default:
		return Draft{}, false
	}
}

// withDraft replaces the draft of an open editor. A closed editor is returned unchanged.
func withDraft(state EditorState, draft Draft) EditorState {
	switch s := state.(type) {
	case EditorCreating:
		s.Draft = draft
		return s
	case EditorEditing:
		s.Draft = draft
		return s
	default:
		return state
	}
}

func draftFromTask(task domain.Task) Draft {
	return Draft{
		Title:  task.Title,
		Status: task.Status,
		Tags:   TagDraft{Tags: append([]string{}, task.Tags...)},
	}
}
