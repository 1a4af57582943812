package tui

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
)

var (
	accentColor  = lipgloss.Color("62")
	mutedColor   = lipgloss.Color("241")
	dimColor     = lipgloss.Color("239")
	warningColor = lipgloss.Color("203")
)

// View renders the current model view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\npress r to retry • q quit\n")
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	header := m.renderHeader()
	body := m.renderColumns()
	if len(m.snap.Columns) == 0 {
		body = lipgloss.NewStyle().Foreground(mutedColor).Padding(1, 2).
			Render("all columns hidden • press 1/2/3 to show a column")
	}

	if overlay := m.renderModeOverlay(); overlay != "" {
		body = overlayOnContent(body, overlay, max(1, m.width), m.columnHeight()+2)
	}
	if m.help.ShowAll {
		body = overlayOnContent(body, m.renderHelpOverlay(), max(1, m.width), m.columnHeight()+2)
	}

	statusStyle := lipgloss.NewStyle().Foreground(mutedColor)
	status := statusStyle.Render(m.status)

	helpStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor)
	m.help.SetWidth(max(0, m.width))
	helpLine := helpStyle.Render(m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, status, helpLine)
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderHeader renders the title line with mode, filter, and hidden columns.
func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	metaStyle := lipgloss.NewStyle().Foreground(mutedColor)

	parts := []string{titleStyle.Render(m.title), metaStyle.Render("[" + m.modeLabel() + "]")}
	if len(m.snap.SelectedTags) > 0 {
		parts = append(parts, metaStyle.Render("filter: #"+strings.Join(m.snap.SelectedTags, " #")))
	}
	var hidden []string
	for _, status := range domain.Statuses() {
		if !m.snap.ColumnVisibility.Visible(status) {
			hidden = append(hidden, status.Label())
		}
	}
	if len(hidden) > 0 {
		parts = append(parts, metaStyle.Render("hidden: "+strings.Join(hidden, ", ")))
	}
	return strings.Join(parts, "  ")
}

// renderColumns renders every visible column side by side.
func (m Model) renderColumns() string {
	colWidth := m.columnWidth()
	colHeight := m.columnHeight()
	rendered := make([]string, 0, len(m.snap.Columns))
	for colIdx, column := range m.snap.Columns {
		rendered = append(rendered, m.renderColumn(colIdx, column, colWidth, colHeight))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderColumn renders one column with its cards.
func (m Model) renderColumn(colIdx int, column board.Column, colWidth, colHeight int) string {
	grabbing := m.snap.Dragging != ""
	isDropTarget := grabbing && colIdx == m.dropTarget
	isSelected := colIdx == m.selectedColumn

	borderColor := dimColor
	if isSelected {
		borderColor = accentColor
	}
	if isDropTarget {
		borderColor = statusColor(column.Status)
	}
	colStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		MarginRight(1).
		Width(colWidth).
		Height(colHeight)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(statusColor(column.Status))
	heading := fmt.Sprintf("%s (%d)", column.Label, len(column.Tasks))
	if isDropTarget {
		heading = "▼ " + heading
	}

	lines := []string{headerStyle.Render(truncate(heading, colWidth))}
	if len(column.Tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(dimColor).Render("(empty)"))
	}
	width := m.cardWidth()
	for taskIdx, task := range column.Tasks {
		selected := isSelected && taskIdx == m.selectedTask
		lines = append(lines, m.renderCard(task, width, selected)...)
		if taskIdx < len(column.Tasks)-1 {
			lines = append(lines, "")
		}
	}
	// border (2) + vertical padding (2)
	content := fitLines(strings.Join(lines, "\n"), max(1, colHeight-4))
	return colStyle.Render(content)
}

// renderCard styles the plain card lines for one task.
func (m Model) renderCard(task domain.Task, width int, selected bool) []string {
	titleStyle := lipgloss.NewStyle()
	tagStyle := lipgloss.NewStyle().Foreground(mutedColor)
	prefix := "  "
	if selected {
		titleStyle = titleStyle.Bold(true).Foreground(accentColor)
		prefix = "│ "
	}
	if task.ID == m.snap.Dragging {
		titleStyle = titleStyle.Italic(true).Foreground(statusColor(task.Status))
		prefix = "↕ "
	}

	raw := m.cardLines(task, width)
	out := make([]string, 0, len(raw)+1)
	titleLines := len(raw)
	if len(task.Tags) > 0 {
		if slices.Contains(m.snap.Expanded, task.ID) {
			titleLines = len(wrapRunes(task.Title, width))
		} else {
			titleLines = 1
		}
	}
	for idx, line := range raw {
		style := titleStyle
		if idx >= titleLines {
			style = tagStyle
		}
		out = append(out, prefix+style.Render(line))
	}
	return out
}

// renderModeOverlay renders the overlay for the active modal state, if any.
func (m Model) renderModeOverlay() string {
	if taskID, pending := board.PendingDelete(m.snap.Confirm); pending {
		return m.renderConfirmOverlay(taskID)
	}
	if board.EditorOpen(m.snap.Editor) {
		return m.renderEditorOverlay()
	}
	switch m.mode {
	case modeFilter:
		return m.renderFilterOverlay()
	case modeTaskInfo:
		return m.renderTaskInfoOverlay()
	}
	return ""
}

// overlayBox returns the shared modal box style.
func (m Model) overlayBox(borderColor color.Color) (lipgloss.Style, int) {
	width := clamp(m.width-8, 40, 72)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width), width - 4
}

// renderConfirmOverlay renders the delete confirmation dialog.
func (m Model) renderConfirmOverlay(taskID string) string {
	box, width := m.overlayBox(warningColor)
	hint := lipgloss.NewStyle().Foreground(mutedColor)
	title := "delete task?"
	if task, ok := m.snap.Task(taskID); ok {
		title = "delete " + truncate(task.Title, max(8, width-8)) + "?"
	}

	confirm := "[confirm]"
	cancel := "[cancel]"
	active := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	if m.confirmChoice == 0 {
		confirm = active.Render(confirm)
	} else {
		cancel = active.Render(cancel)
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		"",
		confirm + "  " + cancel,
		hint.Render("enter apply • y confirm • n/esc cancel • h/l switch"),
	}
	return box.Render(strings.Join(lines, "\n"))
}

// renderEditorOverlay renders the create/edit task form.
func (m Model) renderEditorOverlay() string {
	draft, _ := board.DraftOf(m.snap.Editor)
	box, width := m.overlayBox(accentColor)
	hint := lipgloss.NewStyle().Foreground(mutedColor)
	label := lipgloss.NewStyle().Foreground(mutedColor)
	focused := lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	fieldLabel := func(idx int, name string) string {
		if m.editorFocus == idx {
			return focused.Render("› " + name)
		}
		return label.Render("  " + name)
	}

	heading := "New Task"
	if _, editing := m.snap.Editor.(board.EditorEditing); editing {
		heading = "Edit Task"
	}

	titleInput := m.titleInput
	titleInput.SetWidth(max(10, width-12))
	tagInput := m.tagInput
	tagInput.SetWidth(max(10, width-12))

	statusParts := make([]string, 0, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		if status == draft.Status {
			statusParts = append(statusParts, lipgloss.NewStyle().Bold(true).Foreground(statusColor(status)).Render("["+status.Label()+"]"))
			continue
		}
		statusParts = append(statusParts, hint.Render(" "+status.Label()+" "))
	}

	chips := "(none)"
	if len(draft.Tags.Tags) > 0 {
		chips = "#" + strings.Join(draft.Tags.Tags, " #")
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(heading),
		"",
		fieldLabel(editorFieldTitle, "title  ") + " " + titleInput.View(),
		fieldLabel(editorFieldStatus, "status ") + " " + strings.Join(statusParts, " "),
		fieldLabel(editorFieldTags, "tags   ") + " " + truncate(chips, max(8, width-10)),
		"          " + tagInput.View(),
	}
	if draft.Tags.Warning != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(warningColor).Render(draft.Tags.Warning.Error()+" • esc dismiss"))
	}
	if m.editorFocus == editorFieldTags {
		suggestions := m.editorTagSuggestions()
		for idx, tag := range suggestions {
			row := "   #" + tag
			if idx == m.tagSuggestion {
				row = focused.Render(" › #" + tag)
			}
			lines = append(lines, row)
		}
		pending := strings.TrimSpace(draft.Tags.Pending)
		if pending != "" && !slices.Contains(m.snap.AvailableTags, pending) {
			lines = append(lines, hint.Render(fmt.Sprintf("   enter creates #%s", pending)))
		}
	}
	lines = append(lines, "", hint.Render("tab field • h/l status • enter add tag/save • ctrl+s save • esc cancel"))
	return box.Render(strings.Join(lines, "\n"))
}

// renderFilterOverlay renders the tag filter picker.
func (m Model) renderFilterOverlay() string {
	box, width := m.overlayBox(accentColor)
	hint := lipgloss.NewStyle().Foreground(mutedColor)
	active := lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	in := m.filterInput
	in.SetWidth(max(10, width-8))
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Filter by tag"),
		in.View(),
		"",
	}
	items := m.filterItems()
	if len(items) == 0 {
		lines = append(lines, hint.Render("(no tags)"))
	}
	maxRows := clamp(m.columnHeight()-10, 3, 12)
	start := clamp(m.filterIndex-maxRows+1, 0, max(0, len(items)-maxRows))
	for idx := start; idx < len(items) && idx < start+maxRows; idx++ {
		item := items[idx]
		mark := "[ ]"
		if item.Selected {
			mark = "[✓]"
		}
		row := fmt.Sprintf("%s #%s", mark, item.Tag)
		if idx == m.filterIndex {
			row = active.Render("› " + row)
		} else {
			row = "  " + row
		}
		lines = append(lines, truncate(row, width))
	}
	lines = append(lines, "", hint.Render("enter toggle • ↑/↓ move • ctrl+x clear • esc close"))
	return box.Render(strings.Join(lines, "\n"))
}

// renderTaskInfoOverlay renders task details as markdown.
func (m Model) renderTaskInfoOverlay() string {
	box, width := m.overlayBox(accentColor)
	hint := lipgloss.NewStyle().Foreground(mutedColor)
	task, ok := m.snap.Task(m.infoTaskID)
	if !ok {
		return box.Render("task not found\n\n" + hint.Render("esc close"))
	}
	body := m.markdown.render(taskMarkdown(task), width)
	return box.Render(body + "\n\n" + hint.Render("e edit • esc close"))
}

// renderHelpOverlay renders the full key help.
func (m Model) renderHelpOverlay() string {
	box, width := m.overlayBox(accentColor)
	h := m.help
	h.ShowAll = true
	h.SetWidth(width)
	return box.Render(lipgloss.NewStyle().Bold(true).Render("Keys") + "\n\n" + h.View(m.keys) + "\n\n" +
		lipgloss.NewStyle().Foreground(mutedColor).Render("mouse: drag a card onto a column • ? or esc close"))
}
