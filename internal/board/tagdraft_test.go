package board

import (
	"errors"
	"slices"
	"testing"

	"github.com/evanschultz/tagboard/internal/domain"
)

func TestTagDraftAddTrimsAndClearsPending(t *testing.T) {
	d := TagDraft{Pending: "  docs "}
	d = d.Add(d.Pending)
	if !slices.Equal(d.Tags, []string{"docs"}) || d.Pending != "" || d.Warning != nil {
		t.Fatalf("unexpected draft %#v", d)
	}
	if got := d.Add("   "); !slices.Equal(got.Tags, []string{"docs"}) {
		t.Fatalf("expected blank add ignored, got %#v", got.Tags)
	}
}

func TestTagDraftDuplicateSetsWarning(t *testing.T) {
	d := TagDraft{Tags: []string{"a", "b"}}.SetPending("a")
	d = d.Add("a")
	if !slices.Equal(d.Tags, []string{"a", "b"}) {
		t.Fatalf("expected tags unchanged, got %v", d.Tags)
	}
	if d.Warning == nil || d.Warning.Tag != "a" {
		t.Fatalf("expected duplicate warning, got %#v", d.Warning)
	}
	if d.Pending != "a" {
		t.Fatalf("expected pending text kept, got %q", d.Pending)
	}
	if !errors.Is(*d.Warning, domain.ErrDuplicateTag) {
		t.Fatal("expected warning to wrap ErrDuplicateTag")
	}
	d = d.DismissWarning()
	if d.Warning != nil || !slices.Equal(d.Tags, []string{"a", "b"}) {
		t.Fatalf("expected only the flag cleared, got %#v", d)
	}
}

func TestTagDraftDuplicateIsCaseSensitive(t *testing.T) {
	d := TagDraft{Tags: []string{"Docs"}}.Add("docs")
	if d.Warning != nil || !slices.Equal(d.Tags, []string{"Docs", "docs"}) {
		t.Fatalf("expected case-distinct tag accepted, got %#v", d)
	}
}

func TestTagDraftRemove(t *testing.T) {
	orig := TagDraft{Tags: []string{"a", "b", "c"}}
	d := orig.Remove("b")
	if !slices.Equal(d.Tags, []string{"a", "c"}) {
		t.Fatalf("unexpected tags %v", d.Tags)
	}
	if !slices.Equal(orig.Tags, []string{"a", "b", "c"}) {
		t.Fatalf("expected original untouched, got %v", orig.Tags)
	}
	if got := d.Remove("zzz"); !slices.Equal(got.Tags, []string{"a", "c"}) {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
}
