package board

import (
	"slices"
	"strings"

	"github.com/evanschultz/tagboard/internal/domain"
)

// VisibleTasks returns the tasks carrying at least one selected tag, in collection order.
// An empty selection returns tasks unchanged.
func VisibleTasks(tasks []domain.Task, selected []string) []domain.Task {
	if len(selected) == 0 {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.HasAnyTag(selected) {
			out = append(out, task)
		}
	}
	return out
}

// AvailableTags returns every distinct tag in first-seen order.
func AvailableTags(tasks []domain.Task) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// SuggestTags filters available tags by a case-insensitive substring, skipping selected ones.
func SuggestTags(available, selected []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(available))
	for _, tag := range available {
		if slices.Contains(selected, tag) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(tag), query) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// toggleTag adds tag when absent and removes it otherwise, returning a new slice.
func toggleTag(tags []string, tag string) []string {
	if idx := slices.Index(tags, tag); idx >= 0 {
		out := slices.Clone(tags)
		return slices.Delete(out, idx, idx+1)
	}
	return append(slices.Clone(tags), tag)
}
