package board

import (
	"maps"

	"github.com/evanschultz/tagboard/internal/domain"
)

// ColumnVisibility maps a status to whether its column is rendered.
// Missing entries are visible.
type ColumnVisibility map[domain.Status]bool

// DefaultVisibility shows every column.
func DefaultVisibility() ColumnVisibility {
	out := ColumnVisibility{}
	for _, status := range domain.Statuses() {
		out[status] = true
	}
	return out
}

// HiddenVisibility shows every column except the given ones.
func HiddenVisibility(hidden ...domain.Status) ColumnVisibility {
	out := DefaultVisibility()
	for _, status := range hidden {
		if status.Valid() {
			out[status] = false
		}
	}
	return out
}

// Visible reports whether the column for status is rendered.
func (v ColumnVisibility) Visible(status domain.Status) bool {
	visible, ok := v[status]
	return !ok || visible
}

// Toggle returns a copy with the status flipped.
func (v ColumnVisibility) Toggle(status domain.Status) ColumnVisibility {
	out := DefaultVisibility()
	maps.Copy(out, v)
	out[status] = !v.Visible(status)
	return out
}

// Column is one rendered board column.
type Column struct {
	Status domain.Status `json:"status"`
	Label  string        `json:"label"`
	Tasks  []domain.Task `json:"tasks"`
}

// Project returns the tasks with the given status, keeping their relative order.
func Project(tasks []domain.Task, status domain.Status) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out
}

// ProjectAll partitions tasks into one projection per status.
func ProjectAll(tasks []domain.Task) map[domain.Status][]domain.Task {
	out := make(map[domain.Status][]domain.Task, 3)
	for _, status := range domain.Statuses() {
		out[status] = Project(tasks, status)
	}
	return out
}

// Columns returns the visible columns in canonical order.
func Columns(tasks []domain.Task, visibility ColumnVisibility) []Column {
	return columnsFrom(ProjectAll(tasks), visibility)
}

func columnsFrom(byStatus map[domain.Status][]domain.Task, visibility ColumnVisibility) []Column {
	out := make([]Column, 0, len(byStatus))
	for _, status := range domain.Statuses() {
		if !visibility.Visible(status) {
			continue
		}
		out = append(out, Column{
			Status: status,
			Label:  status.Label(),
			Tasks:  byStatus[status],
		})
	}
	return out
}
