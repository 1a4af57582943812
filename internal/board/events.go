package board

import "github.com/evanschultz/tagboard/internal/domain"

// Event is a user intent fed into Reduce.
type Event interface {
	// Kind names the intent in logs and wire formats.
	Kind() string
}

type (
	// CreateTask opens the editor in creating mode for a column.
	CreateTask struct{ Status domain.Status }
	// EditTask opens the editor on an existing task.
	EditTask struct{ TaskID string }
	// DeleteTask asks for confirmation before removing a task.
	DeleteTask struct{ TaskID string }
	// ConfirmDelete removes the pending task. An empty TaskID means the pending one;
	// a non-empty TaskID must name it or the intent fails with ErrDeleteNotPending.
	ConfirmDelete struct{ TaskID string }
	CancelDelete  struct{}

	DragStart  struct{ TaskID string }
	DragOver   struct{ Status domain.Status }
	DropOn     struct{ Status domain.Status }
	CancelDrag struct{}
	// MoveTask sets the status of one task in a single transition, leaving any drag untouched.
	MoveTask struct {
		TaskID string
		Status domain.Status
	}

	ToggleColumn   struct{ Status domain.Status }
	SelectTag      struct{ Tag string }
	ClearTagFilter struct{}

	SubmitCreate struct {
		Title  string
		Tags   []string
		Status domain.Status
	}
	SubmitEdit struct {
		TaskID string
		Title  string
		Tags   []string
		Status domain.Status
	}
	// SubmitEditor commits the open editor's draft.
	SubmitEditor struct{}
	CancelEditor struct{}

	SetDraftTitle           struct{ Title string }
	SetDraftStatus          struct{ Status domain.Status }
	AddTagDraft             struct{ Text string }
	RemoveTagDraft          struct{ Tag string }
	SetPendingTag           struct{ Text string }
	DismissDuplicateWarning struct{}

	// ToggleExpand shows or hides the full title and tags of a card.
	ToggleExpand struct{ TaskID string }
)

func (CreateTask) Kind() string              { return "createTask" }
func (EditTask) Kind() string                { return "editTask" }
func (DeleteTask) Kind() string              { return "deleteTask" }
func (ConfirmDelete) Kind() string           { return "confirmDelete" }
func (CancelDelete) Kind() string            { return "cancelDelete" }
func (DragStart) Kind() string               { return "dragStart" }
func (DragOver) Kind() string                { return "dragOver" }
func (DropOn) Kind() string                  { return "dropOn" }
func (CancelDrag) Kind() string              { return "cancelDrag" }
func (MoveTask) Kind() string                { return "moveTask" }
func (ToggleColumn) Kind() string            { return "toggleColumn" }
func (SelectTag) Kind() string               { return "selectTag" }
func (ClearTagFilter) Kind() string          { return "clearTagFilter" }
func (SubmitCreate) Kind() string            { return "submitCreate" }
func (SubmitEdit) Kind() string              { return "submitEdit" }
func (SubmitEditor) Kind() string            { return "submitEditor" }
func (CancelEditor) Kind() string            { return "cancelEditor" }
func (SetDraftTitle) Kind() string           { return "setDraftTitle" }
func (SetDraftStatus) Kind() string          { return "setDraftStatus" }
func (AddTagDraft) Kind() string             { return "addTagDraft" }
func (RemoveTagDraft) Kind() string          { return "removeTagDraft" }
func (SetPendingTag) Kind() string           { return "setPendingTag" }
func (DismissDuplicateWarning) Kind() string { return "dismissDuplicateWarning" }
func (ToggleExpand) Kind() string            { return "toggleExpand" }
