package board

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/domain"
)

// ErrDeleteNotPending reports a confirmation naming a task other than the pending one.
var ErrDeleteNotPending = errors.New("delete not pending")

// State is the interaction state owned by the board, separate from the task collection.
type State struct {
	SelectedTags []string
	Visibility   ColumnVisibility
	Editor       EditorState
	Confirm      ConfirmState
	Dragging     string
	Expanded     []string
}

// NewState returns the initial state with every column visible.
func NewState() State {
	return State{
		Visibility: DefaultVisibility(),
		Editor:     EditorClosed{},
		Confirm:    ConfirmIdle{},
	}
}

// Clone returns a copy that shares no slices or maps with s.
func (s State) Clone() State {
	out := s
	out.SelectedTags = slices.Clone(s.SelectedTags)
	out.Expanded = slices.Clone(s.Expanded)
	out.Visibility = DefaultVisibility().merge(s.Visibility)
	if draft, ok := DraftOf(s.Editor); ok {
		out.Editor = withDraft(s.Editor, draft.clone())
	}
	if out.Editor == nil {
		out.Editor = EditorClosed{}
	}
	if out.Confirm == nil {
		out.Confirm = ConfirmIdle{}
	}
	return out
}

func (v ColumnVisibility) merge(other ColumnVisibility) ColumnVisibility {
	for status, visible := range other {
		v[status] = visible
	}
	return v
}

// IsExpanded reports whether the card for taskID shows its full content.
func (s State) IsExpanded(taskID string) bool {
	return slices.Contains(s.Expanded, taskID)
}

// Effect names the store mutation a transition requires.
type Effect interface {
	effect()
}

type createEffect struct{ in app.CreateTaskInput }

type updateEffect struct{ in app.UpdateTaskInput }

type setStatusEffect struct {
	taskID string
	status domain.Status
}

type removeEffect struct{ taskID string }

func (createEffect) effect()    {}
func (updateEffect) effect()    {}
func (setStatusEffect) effect() {}
func (removeEffect) effect()    {}

// Reduce computes the state that follows ev. The returned effect, when non-nil, must be
// applied to the store before the new state is committed. A non-nil error means the
// event was rejected and state must stay as it was.
func Reduce(state State, tasks app.Collection, ev Event) (State, Effect, error) {
	next := state.Clone()
	switch e := ev.(type) {
	case CreateTask:
		if EditorOpen(next.Editor) {
			return next, nil, nil
		}
		status, err := normalizeStatus(e.Status)
		if err != nil {
			return state, nil, err
		}
		next.Editor = EditorCreating{DefaultStatus: status, Draft: Draft{Status: status}}
		return next, nil, nil

	case EditTask:
		if EditorOpen(next.Editor) {
			return next, nil, nil
		}
		task, ok := tasks.Task(strings.TrimSpace(e.TaskID))
		if !ok {
			return next, nil, nil
		}
		next.Editor = EditorEditing{TaskID: task.ID, Draft: draftFromTask(task)}
		return next, nil, nil

	case SetDraftTitle:
		if draft, ok := DraftOf(next.Editor); ok {
			draft.Title = e.Title
			next.Editor = withDraft(next.Editor, draft)
		}
		return next, nil, nil

	case SetDraftStatus:
		draft, ok := DraftOf(next.Editor)
		if !ok {
			return next, nil, nil
		}
		if !e.Status.Valid() {
			return state, nil, domain.ErrInvalidStatus
		}
		draft.Status = e.Status
		next.Editor = withDraft(next.Editor, draft)
		return next, nil, nil

	case AddTagDraft:
		return updateTagDraft(next, func(d TagDraft) TagDraft { return d.Add(e.Text) }), nil, nil
	case RemoveTagDraft:
		return updateTagDraft(next, func(d TagDraft) TagDraft { return d.Remove(e.Tag) }), nil, nil
	case SetPendingTag:
		return updateTagDraft(next, func(d TagDraft) TagDraft { return d.SetPending(e.Text) }), nil, nil
	case DismissDuplicateWarning:
		return updateTagDraft(next, TagDraft.DismissWarning), nil, nil

	case SubmitEditor:
		switch ed := next.Editor.(type) {
		case EditorCreating:
			return Reduce(state, tasks, SubmitCreate{Title: ed.Draft.Title, Tags: ed.Draft.Tags.Tags, Status: ed.Draft.Status})
		case EditorEditing:
			return Reduce(state, tasks, SubmitEdit{TaskID: ed.TaskID, Title: ed.Draft.Title, Tags: ed.Draft.Tags.Tags, Status: ed.Draft.Status})
		}
		return next, nil, nil

	case SubmitCreate:
		in, err := validateSubmission(e.Title, e.Tags, e.Status)
		if err != nil {
			return state, nil, err
		}
		if _, creating := next.Editor.(EditorCreating); creating {
			next.Editor = EditorClosed{}
		}
		return next, createEffect{in: app.CreateTaskInput{Title: in.Title, Tags: in.Tags, Status: in.Status}}, nil

	case SubmitEdit:
		in, err := validateSubmission(e.Title, e.Tags, e.Status)
		if err != nil {
			return state, nil, err
		}
		taskID := strings.TrimSpace(e.TaskID)
		if ed, editing := next.Editor.(EditorEditing); editing && ed.TaskID == taskID {
			next.Editor = EditorClosed{}
		}
		if _, ok := tasks.Task(taskID); !ok {
			return next, nil, nil
		}
		return next, updateEffect{in: app.UpdateTaskInput{TaskID: taskID, Title: in.Title, Tags: in.Tags, Status: in.Status}}, nil

	case CancelEditor:
		next.Editor = EditorClosed{}
		return next, nil, nil

	case DeleteTask:
		task, ok := tasks.Task(strings.TrimSpace(e.TaskID))
		if !ok {
			return next, nil, nil
		}
		next.Confirm = ConfirmPending{TaskID: task.ID}
		return next, nil, nil

	case CancelDelete:
		next.Confirm = ConfirmIdle{}
		return next, nil, nil

	case ConfirmDelete:
		id := strings.TrimSpace(e.TaskID)
		pending, ok := PendingDelete(next.Confirm)
		if id != "" && (!ok || id != pending) {
			return state, nil, fmt.Errorf("%w: task %s", ErrDeleteNotPending, id)
		}
		if !ok {
			return next, nil, nil
		}
		next.Confirm = ConfirmIdle{}
		next.Expanded = removeString(next.Expanded, pending)
		if next.Dragging == pending {
			next.Dragging = ""
		}
		return next, removeEffect{taskID: pending}, nil

	case DragStart:
		task, ok := tasks.Task(strings.TrimSpace(e.TaskID))
		if !ok {
			return next, nil, nil
		}
		next.Dragging = task.ID
		return next, nil, nil

	case DragOver:
		return next, nil, nil

	case DropOn:
		if !e.Status.Valid() {
			return state, nil, domain.ErrInvalidStatus
		}
		dragged := next.Dragging
		next.Dragging = ""
		if dragged == "" {
			return next, nil, nil
		}
		if _, ok := tasks.Task(dragged); !ok {
			return next, nil, nil
		}
		return next, setStatusEffect{taskID: dragged, status: e.Status}, nil

	case CancelDrag:
		next.Dragging = ""
		return next, nil, nil

	case MoveTask:
		if !e.Status.Valid() {
			return state, nil, domain.ErrInvalidStatus
		}
		task, ok := tasks.Task(strings.TrimSpace(e.TaskID))
		if !ok {
			return next, nil, nil
		}
		return next, setStatusEffect{taskID: task.ID, status: e.Status}, nil

	case ToggleColumn:
		if !e.Status.Valid() {
			return state, nil, domain.ErrInvalidStatus
		}
		next.Visibility = next.Visibility.Toggle(e.Status)
		return next, nil, nil

	case SelectTag:
		tag := strings.TrimSpace(e.Tag)
		if tag == "" {
			return next, nil, nil
		}
		next.SelectedTags = toggleTag(next.SelectedTags, tag)
		return next, nil, nil

	case ClearTagFilter:
		next.SelectedTags = nil
		return next, nil, nil

	case ToggleExpand:
		id := strings.TrimSpace(e.TaskID)
		if slices.Contains(next.Expanded, id) {
			next.Expanded = removeString(next.Expanded, id)
			return next, nil, nil
		}
		if _, ok := tasks.Task(id); ok {
			next.Expanded = append(next.Expanded, id)
		}
		return next, nil, nil
	}
	return next, nil, nil
}

type submission struct {
	Title  string
	Tags   []string
	Status domain.Status
}

// validateSubmission blocks empty titles, unknown statuses, and duplicate tags before the store sees them.
func validateSubmission(title string, tags []string, status domain.Status) (submission, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return submission{}, domain.ErrInvalidTitle
	}
	status, err := normalizeStatus(status)
	if err != nil {
		return submission{}, err
	}
	normalized, err := domain.NormalizeTags(tags)
	if err != nil {
		return submission{}, err
	}
	return submission{Title: title, Tags: normalized, Status: status}, nil
}

func normalizeStatus(status domain.Status) (domain.Status, error) {
	if status == "" {
		return domain.StatusTodo, nil
	}
	if !status.Valid() {
		return "", domain.ErrInvalidStatus
	}
	return status, nil
}

func updateTagDraft(state State, fn func(TagDraft) TagDraft) State {
	draft, ok := DraftOf(state.Editor)
	if !ok {
		return state
	}
	draft.Tags = fn(draft.Tags)
	state.Editor = withDraft(state.Editor, draft)
	return state
}

func removeString(values []string, target string) []string {
	idx := slices.Index(values, target)
	if idx < 0 {
		return values
	}
	return slices.Delete(slices.Clone(values), idx, idx+1)
}
