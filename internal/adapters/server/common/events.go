package common

import (
	"fmt"
	"strings"

	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
)

// EventRequest is the wire form of one board intent.
// Type uses the intent kind names, e.g. "dropOn" or "submitCreate".
type EventRequest struct {
	Type   string   `json:"type"`
	TaskID string   `json:"task_id,omitempty"`
	Status string   `json:"status,omitempty"`
	Tag    string   `json:"tag,omitempty"`
	Title  string   `json:"title,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Event converts the request into a board intent.
func (r EventRequest) Event() (board.Event, error) {
	switch strings.TrimSpace(r.Type) {
	case "createTask":
		status, err := r.statusOr(domain.StatusTodo)
		if err != nil {
			return nil, err
		}
		return board.CreateTask{Status: status}, nil
	case "editTask":
		return board.EditTask{TaskID: r.TaskID}, r.requireTaskID()
	case "deleteTask":
		return board.DeleteTask{TaskID: r.TaskID}, r.requireTaskID()
	case "confirmDelete":
		return board.ConfirmDelete{TaskID: r.TaskID}, r.requireTaskID()
	case "cancelDelete":
		return board.CancelDelete{}, nil
	case "dragStart":
		return board.DragStart{TaskID: r.TaskID}, r.requireTaskID()
	case "dragOver":
		status, err := r.requireStatus()
		return board.DragOver{Status: status}, err
	case "dropOn":
		status, err := r.requireStatus()
		return board.DropOn{Status: status}, err
	case "cancelDrag":
		return board.CancelDrag{}, nil
	case "moveTask":
		if err := r.requireTaskID(); err != nil {
			return nil, err
		}
		status, err := r.requireStatus()
		return board.MoveTask{TaskID: r.TaskID, Status: status}, err
	case "toggleColumn":
		status, err := r.requireStatus()
		return board.ToggleColumn{Status: status}, err
	case "selectTag":
		if strings.TrimSpace(r.Tag) == "" {
			return nil, fmt.Errorf("%w: tag is required", ErrInvalidRequest)
		}
		return board.SelectTag{Tag: r.Tag}, nil
	case "clearTagFilter":
		return board.ClearTagFilter{}, nil
	case "submitCreate":
		status, err := r.statusOr(domain.StatusTodo)
		if err != nil {
			return nil, err
		}
		return board.SubmitCreate{Title: r.Title, Tags: r.Tags, Status: status}, nil
	case "submitEdit":
		if err := r.requireTaskID(); err != nil {
			return nil, err
		}
		status, err := r.requireStatus()
		if err != nil {
			return nil, err
		}
		return board.SubmitEdit{TaskID: r.TaskID, Title: r.Title, Tags: r.Tags, Status: status}, nil
	case "submitEditor":
		return board.SubmitEditor{}, nil
	case "cancelEditor":
		return board.CancelEditor{}, nil
	case "setDraftTitle":
		return board.SetDraftTitle{Title: r.Title}, nil
	case "setDraftStatus":
		status, err := r.requireStatus()
		return board.SetDraftStatus{Status: status}, err
	case "addTagDraft":
		return board.AddTagDraft{Text: r.Text}, nil
	case "removeTagDraft":
		return board.RemoveTagDraft{Tag: r.Tag}, nil
	case "setPendingTag":
		return board.SetPendingTag{Text: r.Text}, nil
	case "dismissDuplicateWarning":
		return board.DismissDuplicateWarning{}, nil
	case "toggleExpand":
		return board.ToggleExpand{TaskID: r.TaskID}, r.requireTaskID()
	case "":
		return nil, fmt.Errorf("%w: type is required", ErrInvalidRequest)
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidRequest, r.Type)
	}
}

// requireTaskID rejects a blank task id.
func (r EventRequest) requireTaskID() error {
	if strings.TrimSpace(r.TaskID) == "" {
		return fmt.Errorf("%w: task_id is required", ErrInvalidRequest)
	}
	return nil
}

// requireStatus parses a mandatory status.
func (r EventRequest) requireStatus() (domain.Status, error) {
	if strings.TrimSpace(r.Status) == "" {
		return "", fmt.Errorf("%w: status is required", ErrInvalidRequest)
	}
	return r.statusOr("")
}

// statusOr parses the status, returning fallback when it is blank.
func (r EventRequest) statusOr(fallback domain.Status) (domain.Status, error) {
	if strings.TrimSpace(r.Status) == "" {
		return fallback, nil
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return status, nil
}
