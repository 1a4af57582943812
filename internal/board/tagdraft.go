package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/evanschultz/tagboard/internal/domain"
)

// DuplicateTagWarning flags an attempt to add a tag the draft already has.
type DuplicateTagWarning struct {
	Tag string
}

func (w DuplicateTagWarning) Error() string {
	return fmt.Sprintf("tag %q already added", w.Tag)
}

func (w DuplicateTagWarning) Unwrap() error {
	return domain.ErrDuplicateTag
}

// TagDraft is the tag list being edited inside the task editor.
type TagDraft struct {
	Tags    []string
	Pending string
	Warning *DuplicateTagWarning
}

// Add appends the trimmed text. Blank input is ignored and an exact duplicate
// leaves the list unchanged with Warning set.
func (d TagDraft) Add(text string) TagDraft {
	tag := strings.TrimSpace(text)
	if tag == "" {
		return d
	}
	if slices.Contains(d.Tags, tag) {
		d.Warning = &DuplicateTagWarning{Tag: tag}
		return d
	}
	d.Tags = append(slices.Clone(d.Tags), tag)
	d.Pending = ""
	return d
}

// Remove drops the first occurrence of tag.
func (d TagDraft) Remove(tag string) TagDraft {
	idx := slices.Index(d.Tags, tag)
	if idx < 0 {
		return d
	}
	d.Tags = slices.Delete(slices.Clone(d.Tags), idx, idx+1)
	return d
}

func (d TagDraft) DismissWarning() TagDraft {
	d.Warning = nil
	return d
}

func (d TagDraft) SetPending(text string) TagDraft {
	d.Pending = text
	return d
}

func (d TagDraft) clone() TagDraft {
	d.Tags = slices.Clone(d.Tags)
	if d.Warning != nil {
		w := *d.Warning
		d.Warning = &w
	}
	return d
}
