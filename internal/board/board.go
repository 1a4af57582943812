package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/domain"
)

// Store is the task collection the board mutates.
type Store interface {
	Collection(context.Context) (app.Collection, error)
	CreateTask(context.Context, app.CreateTaskInput) (domain.Task, error)
	UpdateTask(context.Context, app.UpdateTaskInput) (domain.Task, error)
	SetTaskStatus(context.Context, string, domain.Status) (domain.Task, error)
	RemoveTask(context.Context, string) error
}

// Logger receives debug records for dispatched intents.
type Logger interface {
	Debug(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used for intent tracing.
func WithLogger(logger Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithHiddenColumns hides the given statuses at startup.
func WithHiddenColumns(hidden ...domain.Status) Option {
	return func(b *Board) {
		b.state.Visibility = HiddenVisibility(hidden...)
	}
}

// Board coordinates interaction state with the task store. Dispatch and Snapshot are
// safe for concurrent use; calls are serialized.
type Board struct {
	store  Store
	logger Logger

	mu        sync.Mutex
	state     State
	filterRev uint64
	memo      projectionMemo
}

// New constructs a board over store.
func New(store Store, opts ...Option) *Board {
	b := &Board{
		store:  store,
		logger: nopLogger{},
		state:  NewState(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// State returns a copy of the current interaction state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Dispatch applies one intent.
func (b *Board) Dispatch(ctx context.Context, ev Event) error {
	_, err := b.DispatchTask(ctx, ev)
	return err
}

// DispatchTask applies one intent and returns the task its store mutation produced, if any.
// A task the store no longer knows is treated as a no-op.
func (b *Board) DispatchTask(ctx context.Context, ev Event) (domain.Task, error) {
	if ev == nil {
		return domain.Task{}, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, err := b.store.Collection(ctx)
	if err != nil {
		return domain.Task{}, fmt.Errorf("load collection: %w", err)
	}
	next, eff, err := Reduce(b.state, cur, ev)
	if err != nil {
		b.logger.Debug("board intent rejected", "intent", ev.Kind(), "err", err)
		return domain.Task{}, err
	}
	task, err := b.applyEffect(ctx, eff)
	switch {
	case errors.Is(err, app.ErrNotFound):
		b.logger.Debug("board intent target missing", "intent", ev.Kind())
	case err != nil:
		b.logger.Debug("board intent failed", "intent", ev.Kind(), "err", err)
		return domain.Task{}, err
	}
	b.commitLocked(next)
	b.logger.Debug("board intent applied", "intent", ev.Kind())
	return task, nil
}

func (b *Board) applyEffect(ctx context.Context, eff Effect) (domain.Task, error) {
	switch e := eff.(type) {
	case createEffect:
		return b.store.CreateTask(ctx, e.in)
	case updateEffect:
		return b.store.UpdateTask(ctx, e.in)
	case setStatusEffect:
		return b.store.SetTaskStatus(ctx, e.taskID, e.status)
	case removeEffect:
		return domain.Task{}, b.store.RemoveTask(ctx, e.taskID)
	default:
		return domain.Task{}, nil
	}
}

func (b *Board) commitLocked(next State) {
	if !slices.Equal(b.state.SelectedTags, next.SelectedTags) {
		b.filterRev++
	}
	b.state = next
}
