package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/tagboard/internal/domain"
)

// markdownRenderer caches a glamour renderer per wrap width.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI text, falling back to the raw input on renderer errors.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(24, width)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}
	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// taskMarkdown describes one task for the info overlay.
func taskMarkdown(task domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", task.Title)
	fmt.Fprintf(&b, "- **Status:** %s\n", task.Status.Label())
	if len(task.Tags) == 0 {
		b.WriteString("- **Tags:** none\n")
	} else {
		fmt.Fprintf(&b, "- **Tags:** `%s`\n", strings.Join(task.Tags, "` `"))
	}
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Created:** %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if !task.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Updated:** %s\n", task.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "\n_id: %s_\n", task.ID)
	return b.String()
}
