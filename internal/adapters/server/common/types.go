// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"

	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
)

// ErrInvalidRequest and related errors classify transport failures.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)

// BoardService is the coordinator surface shared by every transport.
type BoardService interface {
	DispatchTask(context.Context, board.Event) (domain.Task, error)
	Snapshot(context.Context) (board.Snapshot, error)
}

// TaskStore exposes unfiltered reads of the task collection.
type TaskStore interface {
	Collection(context.Context) (app.Collection, error)
	ExportSnapshot(context.Context) (app.Snapshot, error)
}

// Logger is the subset of charmbracelet/log used by the transports.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

// NopLogger discards every record.
type NopLogger struct{}

// Debug discards one debug record.
func (NopLogger) Debug(any, ...any) {}

// Warn discards one warning record.
func (NopLogger) Warn(any, ...any) {}

// RequireTask returns the stored task or ErrNotFound, ignoring the active tag filter.
func RequireTask(ctx context.Context, tasks TaskStore, taskID string) (domain.Task, error) {
	cur, err := tasks.Collection(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := cur.Task(taskID)
	if !ok {
		return domain.Task{}, errors.Join(ErrNotFound, errors.New("task "+taskID))
	}
	return task, nil
}

// IsValidationError reports whether err is a domain validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidTitle) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrDuplicateTag) ||
		errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, app.ErrInvalidSnapshot)
}

// IsConflict reports whether err rejects an intent that no longer matches board state.
func IsConflict(err error) bool {
	return errors.Is(err, board.ErrDeleteNotPending)
}

// IsNotFound reports whether err names a missing task.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, app.ErrNotFound)
}
