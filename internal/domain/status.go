package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Status identifies the board column a task belongs to.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

var orderedStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

var statusLabels = map[Status]string{
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// Statuses returns every status in column order.
func Statuses() []Status {
	return slices.Clone(orderedStatuses)
}

// ParseStatus normalizes raw input into a known status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(strings.ToLower(raw)))
	switch status {
	case "progress", "in_progress", "inprogress", "doing":
		status = StatusInProgress
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	return slices.Contains(orderedStatuses, s)
}

// Label returns the column heading for the status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Index returns the column position of the status, or -1 when unknown.
func (s Status) Index() int {
	return slices.Index(orderedStatuses, s)
}

// Next returns the status after s, wrapping around.
func (s Status) Next() Status {
	idx := s.Index()
	if idx < 0 {
		return StatusTodo
	}
	return orderedStatuses[(idx+1)%len(orderedStatuses)]
}

// Prev returns the status before s, wrapping around.
func (s Status) Prev() Status {
	idx := s.Index()
	if idx < 0 {
		return StatusTodo
	}
	return orderedStatuses[(idx+len(orderedStatuses)-1)%len(orderedStatuses)]
}
