package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Task struct {
	ID        string
	Title     string
	Tags      []string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaskInput struct {
	ID     string
	Title  string
	Tags   []string
	Status Status
}

func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if !in.Status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return Task{}, err
	}

	return Task{
		ID:        in.ID,
		Title:     in.Title,
		Tags:      tags,
		Status:    in.Status,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// UpdateDetails replaces every mutable field at once.
func (t *Task) UpdateDetails(title string, tags []string, status Status, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	normalized, err := NormalizeTags(tags)
	if err != nil {
		return err
	}
	t.Title = title
	t.Tags = normalized
	t.Status = status
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *Task) SetStatus(status Status, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = now.UTC()
	return nil
}

// HasAnyTag reports whether the task carries at least one of the given tags.
func (t Task) HasAnyTag(tags []string) bool {
	for _, tag := range t.Tags {
		if slices.Contains(tags, tag) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}

// NormalizeTags trims tags, drops blanks, and rejects exact duplicates.
// Order is preserved.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if slices.Contains(out, tag) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
		}
		out = append(out, tag)
	}
	return out, nil
}
