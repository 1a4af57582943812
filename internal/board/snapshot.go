package board

import (
	"context"
	"fmt"

	"github.com/evanschultz/tagboard/internal/domain"
)

// Snapshot is everything a renderer needs to draw the board.
// Its slices and maps may be shared with later snapshots and must not be modified.
type Snapshot struct {
	Version          uint64
	VisibleByStatus  map[domain.Status][]domain.Task
	Columns          []Column
	AvailableTags    []string
	SelectedTags     []string
	ColumnVisibility ColumnVisibility
	Editor           EditorState
	Confirm          ConfirmState
	Dragging         string
	Expanded         []string

	byID map[string]domain.Task
}

// Task returns a task by id, including tasks the tag filter or a hidden column keeps off screen.
func (s Snapshot) Task(id string) (domain.Task, bool) {
	if s.byID != nil {
		task, ok := s.byID[id]
		return task, ok
	}
	for _, tasks := range s.VisibleByStatus {
		for _, task := range tasks {
			if task.ID == id {
				return task, true
			}
		}
	}
	return domain.Task{}, false
}

// Column returns the rendered column for status.
func (s Snapshot) Column(status domain.Status) (Column, bool) {
	for _, col := range s.Columns {
		if col.Status == status {
			return col, true
		}
	}
	return Column{}, false
}

type projectionMemo struct {
	valid     bool
	version   uint64
	filterRev uint64
	byStatus  map[domain.Status][]domain.Task
	byID      map[string]domain.Task
	tags      []string
}

// Snapshot builds the render model. Projections are recomputed only when the
// collection version or the tag selection changed since the last call.
func (b *Board) Snapshot(ctx context.Context) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, err := b.store.Collection(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load collection: %w", err)
	}
	if !b.memo.valid || b.memo.version != cur.Version {
		b.memo.byID = indexTasks(cur.Tasks)
	}
	if !b.memo.valid || b.memo.version != cur.Version || b.memo.filterRev != b.filterRev {
		b.memo = projectionMemo{
			valid:     true,
			version:   cur.Version,
			filterRev: b.filterRev,
			byStatus:  ProjectAll(VisibleTasks(cur.Tasks, b.state.SelectedTags)),
			byID:      b.memo.byID,
			tags:      AvailableTags(cur.Tasks),
		}
	}

	state := b.state.Clone()
	return Snapshot{
		Version:          cur.Version,
		VisibleByStatus:  b.memo.byStatus,
		Columns:          columnsFrom(b.memo.byStatus, state.Visibility),
		AvailableTags:    b.memo.tags,
		SelectedTags:     state.SelectedTags,
		ColumnVisibility: state.Visibility,
		Editor:           state.Editor,
		Confirm:          state.Confirm,
		Dragging:         state.Dragging,
		Expanded:         state.Expanded,
		byID:             b.memo.byID,
	}, nil
}

func indexTasks(tasks []domain.Task) map[string]domain.Task {
	out := make(map[string]domain.Task, len(tasks))
	for _, task := range tasks {
		out[task.ID] = task
	}
	return out
}
