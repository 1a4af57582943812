package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/domain"
)

// Board is the coordinator the model renders and sends intents to.
type Board interface {
	Dispatch(context.Context, board.Event) error
	Snapshot(context.Context) (board.Snapshot, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeFilter
	modeTaskInfo
)

// editor field indexes in focus order.
const (
	editorFieldTitle = iota
	editorFieldStatus
	editorFieldTags
	editorFieldCount
)

// maxTagSuggestions bounds the suggestion list shown under tag inputs.
const maxTagSuggestions = 6

// filterItem is one row of the tag filter picker.
type filterItem struct {
	Tag      string
	Selected bool
}

// Model represents model data used by this package.
type Model struct {
	board Board
	title string

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	cards    CardConfig
	copyText ClipboardFunc

	snap           board.Snapshot
	selectedColumn int
	selectedTask   int
	mode           inputMode

	dropTarget  int
	mouseDrag   bool
	mouseOrigin int

	editorFocus   int
	titleInput    textinput.Model
	tagInput      textinput.Model
	tagSuggestion int

	filterInput textinput.Model
	filterIndex int

	confirmChoice int
	infoTaskID    string

	markdown *markdownRenderer
}

// snapshotMsg carries message data through update handling.
type snapshotMsg struct {
	snap board.Snapshot
	err  error
}

// statusMsg carries a status line update from an async command.
type statusMsg struct {
	status string
}

// NewModel constructs a new value for this package.
func NewModel(b Board, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		board:         b,
		title:         "tagboard",
		status:        "loading...",
		help:          h,
		keys:          newKeyMap(),
		cards:         DefaultCardConfig(),
		copyText:      systemClipboard,
		titleInput:    newModalInput("", "what needs doing?", "", 200),
		tagInput:      newModalInput("", "add tag", "", 60),
		filterInput:   newModalInput("tag: ", "type to filter tags", "", 60),
		tagSuggestion: -1,
		markdown:      &markdownRenderer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadSnapshot
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.applySnapshot(msg.snap)
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case statusMsg:
		m.status = msg.status
		return m, nil

	case tea.KeyPressMsg:
		if m.err != nil {
			switch msg.String() {
			case "r":
				m.err = nil
				return m, m.loadSnapshot
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		if m.help.ShowAll {
			switch msg.String() {
			case "?", "esc":
				m.help.ShowAll = false
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		if _, pending := board.PendingDelete(m.snap.Confirm); pending {
			return m.handleConfirmKey(msg)
		}
		if board.EditorOpen(m.snap.Editor) {
			return m.handleEditorKey(msg)
		}
		switch m.mode {
		case modeFilter:
			return m.handleFilterKey(msg)
		case modeTaskInfo:
			return m.handleTaskInfoKey(msg)
		}
		if m.snap.Dragging != "" {
			return m.handleGrabKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m.updateFocusedInput(msg)
	}
}

// updateFocusedInput forwards non-key messages such as cursor blinks to the focused input.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case board.EditorOpen(m.snap.Editor) && m.editorFocus == editorFieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case board.EditorOpen(m.snap.Editor) && m.editorFocus == editorFieldTags:
		m.tagInput, cmd = m.tagInput.Update(msg)
	case m.mode == modeFilter:
		m.filterInput, cmd = m.filterInput.Update(msg)
	}
	return m, cmd
}

// loadSnapshot loads required data for the current operation.
func (m Model) loadSnapshot() tea.Msg {
	snap, err := m.board.Snapshot(context.Background())
	return snapshotMsg{snap: snap, err: err}
}

// dispatch sends one intent and refreshes the snapshot synchronously.
func (m Model) dispatch(ev board.Event) (Model, error) {
	ctx := context.Background()
	dispatchErr := m.board.Dispatch(ctx, ev)
	snap, err := m.board.Snapshot(ctx)
	if err != nil {
		m.err = err
		return m, dispatchErr
	}
	m.applySnapshot(snap)
	return m, dispatchErr
}

// applySnapshot stores snap and keeps cursors and inputs consistent with it.
func (m *Model) applySnapshot(snap board.Snapshot) {
	m.snap = snap
	m.clampSelections()
	if draft, ok := board.DraftOf(snap.Editor); ok {
		if m.tagInput.Value() != draft.Tags.Pending {
			m.tagInput.SetValue(draft.Tags.Pending)
		}
		return
	}
	m.titleInput.Blur()
	m.tagInput.Blur()
}

// handleNormalModeKey handles normal mode key.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloaded"
		return m, m.loadSnapshot
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTask = 0
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.snap.Columns)-1 {
			m.selectedColumn++
			m.selectedTask = 0
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.selectedTask < len(m.currentColumnTasks())-1 {
			m.selectedTask++
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		status := domain.StatusTodo
		if col, ok := m.currentColumn(); ok {
			status = col.Status
		}
		m, err := m.dispatch(board.CreateTask{Status: status})
		if err != nil {
			m.status = errorStatus(err)
			return m, nil
		}
		m.status = "new task in " + status.Label()
		return m, m.startEditor()
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m, _ = m.dispatch(board.EditTask{TaskID: task.ID})
		if !board.EditorOpen(m.snap.Editor) {
			m.status = "task not found"
			return m, nil
		}
		m.status = "editing " + truncate(task.Title, 32)
		return m, m.startEditor()
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.infoTaskID = task.ID
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.confirmChoice = 0
		m, _ = m.dispatch(board.DeleteTask{TaskID: task.ID})
		m.status = "confirm delete"
		return m, nil
	case key.Matches(msg, m.keys.grab):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m, _ = m.dispatch(board.DragStart{TaskID: task.ID})
		m.dropTarget = m.selectedColumn
		m.status = "grabbed " + truncate(task.Title, 32) + " • h/l choose column • space drop • esc cancel"
		return m, nil
	case key.Matches(msg, m.keys.expand):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			return m, nil
		}
		m, _ = m.dispatch(board.ToggleExpand{TaskID: task.ID})
		return m, nil
	case key.Matches(msg, m.keys.copyTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.copyTaskCmd(task)
	case key.Matches(msg, m.keys.filter):
		return m, m.startFilter()
	case key.Matches(msg, m.keys.clearFilter):
		m, _ = m.dispatch(board.ClearTagFilter{})
		m.status = "filter cleared"
		return m, nil
	case key.Matches(msg, m.keys.moveTaskLeft):
		return m.moveSelectedTask(-1)
	case key.Matches(msg, m.keys.moveTaskRight):
		return m.moveSelectedTask(1)
	}
	if idx, ok := columnToggleIndex(msg.String()); ok {
		status := domain.Statuses()[idx]
		m, err := m.dispatch(board.ToggleColumn{Status: status})
		if err != nil {
			m.status = errorStatus(err)
			return m, nil
		}
		if m.snap.ColumnVisibility.Visible(status) {
			m.status = "showing " + status.Label()
		} else {
			m.status = "hiding " + status.Label()
		}
		return m, nil
	}
	return m, nil
}

// handleGrabKey handles keys while a task is grabbed for a keyboard drop.
func (m Model) handleGrabKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case msg.String() == "esc":
		m.mouseDrag = false
		m, _ = m.dispatch(board.CancelDrag{})
		m.status = "drop cancelled"
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		return m.setDropTarget(m.dropTarget - 1)
	case key.Matches(msg, m.keys.moveRight):
		return m.setDropTarget(m.dropTarget + 1)
	case key.Matches(msg, m.keys.grab), msg.String() == "enter":
		return m.dropOnTarget()
	default:
		return m, nil
	}
}

// setDropTarget moves the highlighted drop column.
func (m Model) setDropTarget(idx int) (tea.Model, tea.Cmd) {
	if len(m.snap.Columns) == 0 {
		return m, nil
	}
	idx = clamp(idx, 0, len(m.snap.Columns)-1)
	if idx == m.dropTarget {
		return m, nil
	}
	m.dropTarget = idx
	m, _ = m.dispatch(board.DragOver{Status: m.snap.Columns[idx].Status})
	return m, nil
}

// dropOnTarget drops the grabbed task on the highlighted column.
func (m Model) dropOnTarget() (tea.Model, tea.Cmd) {
	taskID := m.snap.Dragging
	if len(m.snap.Columns) == 0 {
		m, _ = m.dispatch(board.CancelDrag{})
		return m, nil
	}
	target := m.snap.Columns[clamp(m.dropTarget, 0, len(m.snap.Columns)-1)]
	m, err := m.dispatch(board.DropOn{Status: target.Status})
	if err != nil {
		m.status = errorStatus(err)
		return m, nil
	}
	m.focusTaskByID(taskID)
	m.status = "moved to " + target.Label
	return m, nil
}

// moveSelectedTask shifts the selected task one status left or right.
func (m Model) moveSelectedTask(delta int) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	statuses := domain.Statuses()
	idx := task.Status.Index() + delta
	if idx < 0 || idx >= len(statuses) {
		m.status = "already at edge"
		return m, nil
	}
	m, err := m.dispatch(board.MoveTask{TaskID: task.ID, Status: statuses[idx]})
	if err != nil {
		m.status = errorStatus(err)
		return m, nil
	}
	m.focusTaskByID(task.ID)
	m.status = "moved to " + statuses[idx].Label()
	return m, nil
}

// handleConfirmKey handles keys while a delete awaits confirmation.
func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.confirmChoice = 0
		m, _ = m.dispatch(board.CancelDelete{})
		m.status = "cancelled"
		return m, nil
	case "h", "left", "l", "right":
		if m.confirmChoice == 0 {
			m.confirmChoice = 1
		} else {
			m.confirmChoice = 0
		}
		return m, nil
	case "y":
		m.confirmChoice = 0
		m, _ = m.dispatch(board.ConfirmDelete{})
		m.status = "task deleted"
		return m, nil
	case "enter":
		if m.confirmChoice == 1 {
			m.confirmChoice = 0
			m, _ = m.dispatch(board.CancelDelete{})
			m.status = "cancelled"
			return m, nil
		}
		m, _ = m.dispatch(board.ConfirmDelete{})
		m.status = "task deleted"
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		return m, nil
	}
}

// startEditor loads the open editor's draft into the inputs.
func (m *Model) startEditor() tea.Cmd {
	draft, ok := board.DraftOf(m.snap.Editor)
	if !ok {
		return nil
	}
	m.titleInput.SetValue(draft.Title)
	m.tagInput.SetValue(draft.Tags.Pending)
	m.tagSuggestion = -1
	return m.focusEditorField(editorFieldTitle)
}

// focusEditorField moves focus to one editor field.
func (m *Model) focusEditorField(idx int) tea.Cmd {
	m.editorFocus = wrapIndex(idx, 0, editorFieldCount)
	m.titleInput.Blur()
	m.tagInput.Blur()
	switch m.editorFocus {
	case editorFieldTitle:
		return m.titleInput.Focus()
	case editorFieldTags:
		return m.tagInput.Focus()
	default:
		return nil
	}
}

// handleEditorKey handles keys while the task editor is open.
func (m Model) handleEditorKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	draft, _ := board.DraftOf(m.snap.Editor)
	switch msg.String() {
	case "esc":
		if draft.Tags.Warning != nil {
			m, _ = m.dispatch(board.DismissDuplicateWarning{})
			return m, nil
		}
		m, _ = m.dispatch(board.CancelEditor{})
		m.status = "cancelled"
		return m, nil
	case "ctrl+s":
		return m.submitEditor()
	case "tab":
		return m, m.focusEditorField(m.editorFocus + 1)
	case "shift+tab":
		return m, m.focusEditorField(m.editorFocus - 1)
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.editorFocus {
	case editorFieldStatus:
		switch msg.String() {
		case "h", "left":
			m, _ = m.dispatch(board.SetDraftStatus{Status: draft.Status.Prev()})
		case "l", "right":
			m, _ = m.dispatch(board.SetDraftStatus{Status: draft.Status.Next()})
		case "enter":
			return m.submitEditor()
		}
		return m, nil

	case editorFieldTags:
		suggestions := m.editorTagSuggestions()
		switch msg.String() {
		case "up":
			m.tagSuggestion = max(-1, m.tagSuggestion-1)
			return m, nil
		case "down":
			m.tagSuggestion = min(len(suggestions)-1, m.tagSuggestion+1)
			return m, nil
		case "enter":
			text := m.tagInput.Value()
			if m.tagSuggestion >= 0 && m.tagSuggestion < len(suggestions) {
				text = suggestions[m.tagSuggestion]
			}
			m.tagSuggestion = -1
			if strings.TrimSpace(text) == "" {
				return m.submitEditor()
			}
			m, _ = m.dispatch(board.AddTagDraft{Text: text})
			if next, ok := board.DraftOf(m.snap.Editor); ok && next.Tags.Warning != nil {
				m.status = next.Tags.Warning.Error()
			}
			return m, nil
		case "backspace":
			if m.tagInput.Value() == "" && len(draft.Tags.Tags) > 0 {
				m, _ = m.dispatch(board.RemoveTagDraft{Tag: draft.Tags.Tags[len(draft.Tags.Tags)-1]})
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		m.tagSuggestion = -1
		m, _ = m.dispatch(board.SetPendingTag{Text: m.tagInput.Value()})
		return m, cmd

	default:
		if msg.String() == "enter" {
			return m.submitEditor()
		}
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		m, _ = m.dispatch(board.SetDraftTitle{Title: m.titleInput.Value()})
		return m, cmd
	}
}

// submitEditor commits the editor draft.
func (m Model) submitEditor() (tea.Model, tea.Cmd) {
	_, editing := m.snap.Editor.(board.EditorEditing)
	m, err := m.dispatch(board.SubmitEditor{})
	if err != nil {
		m.status = errorStatus(err)
		if errors.Is(err, domain.ErrInvalidTitle) {
			return m, m.focusEditorField(editorFieldTitle)
		}
		return m, nil
	}
	if editing {
		m.status = "task updated"
	} else {
		m.status = "task created"
	}
	return m, nil
}

// editorTagSuggestions returns known tags matching the pending tag text.
func (m Model) editorTagSuggestions() []string {
	draft, ok := board.DraftOf(m.snap.Editor)
	if !ok {
		return nil
	}
	suggestions := board.SuggestTags(m.snap.AvailableTags, draft.Tags.Tags, draft.Tags.Pending)
	if len(suggestions) > maxTagSuggestions {
		suggestions = suggestions[:maxTagSuggestions]
	}
	return suggestions
}

// startFilter opens the tag filter picker.
func (m *Model) startFilter() tea.Cmd {
	m.mode = modeFilter
	m.filterInput.Reset()
	m.filterIndex = 0
	m.status = "filter tags"
	return m.filterInput.Focus()
}

// filterItems lists selected tags first, then unselected suggestions for the query.
func (m Model) filterItems() []filterItem {
	query := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	out := make([]filterItem, 0, len(m.snap.AvailableTags))
	for _, tag := range m.snap.SelectedTags {
		if query != "" && !strings.Contains(strings.ToLower(tag), query) {
			continue
		}
		out = append(out, filterItem{Tag: tag, Selected: true})
	}
	for _, tag := range board.SuggestTags(m.snap.AvailableTags, m.snap.SelectedTags, query) {
		out = append(out, filterItem{Tag: tag})
	}
	return out
}

// handleFilterKey handles keys in the tag filter picker.
func (m Model) handleFilterKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	items := m.filterItems()
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.filterInput.Blur()
		m.status = filterStatus(m.snap.SelectedTags)
		return m, nil
	case "up":
		m.filterIndex = wrapIndex(m.filterIndex, -1, len(items))
		return m, nil
	case "down":
		m.filterIndex = wrapIndex(m.filterIndex, 1, len(items))
		return m, nil
	case "ctrl+x":
		m, _ = m.dispatch(board.ClearTagFilter{})
		m.filterIndex = 0
		m.status = "filter cleared"
		return m, nil
	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		item := items[clamp(m.filterIndex, 0, len(items)-1)]
		m, _ = m.dispatch(board.SelectTag{Tag: item.Tag})
		m.filterIndex = clamp(m.filterIndex, 0, max(0, len(m.filterItems())-1))
		m.status = filterStatus(m.snap.SelectedTags)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterIndex = 0
	return m, cmd
}

// handleTaskInfoKey handles keys in the task info overlay.
func (m Model) handleTaskInfoKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "i", "q":
		m.mode = modeNone
		m.infoTaskID = ""
		return m, nil
	case "e":
		taskID := m.infoTaskID
		m.mode = modeNone
		m.infoTaskID = ""
		m, _ = m.dispatch(board.EditTask{TaskID: taskID})
		return m, m.startEditor()
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// copyTaskCmd copies the task title and tags to the clipboard.
func (m Model) copyTaskCmd(task domain.Task) tea.Cmd {
	text := task.Title
	if len(task.Tags) > 0 {
		text += " #" + strings.Join(task.Tags, " #")
	}
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return statusMsg{status: "copy failed: " + err.Error()}
		}
		return statusMsg{status: "copied " + truncate(task.Title, 32)}
	}
}

// handleMouseWheel handles mouse wheel.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.modalOpen() {
		return m, nil
	}
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedTask > 0 {
			m.selectedTask--
		}
	case tea.MouseWheelDown:
		if m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
	}
	return m, nil
}

// handleMouseClick selects the clicked card and starts dragging it.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.modalOpen() {
		return m, nil
	}
	if msg.Button != tea.MouseLeft {
		return m, nil
	}
	col, ok := m.columnAtX(msg.X)
	if !ok {
		return m, nil
	}
	m.selectedColumn = col
	m.selectedTask = 0

	relativeY := msg.Y - m.boardTop()
	if relativeY < 2 {
		m.clampSelections()
		return m, nil
	}
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return m, nil
	}
	m.selectedTask = clamp(m.taskIndexAtRow(tasks, relativeY-2), 0, len(tasks)-1)
	task := tasks[m.selectedTask]
	m, _ = m.dispatch(board.DragStart{TaskID: task.ID})
	m.mouseDrag = true
	m.mouseOrigin = col
	m.dropTarget = col
	return m, nil
}

// handleMouseMotion tracks the drop column while dragging.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.mouseDrag {
		return m, nil
	}
	col, ok := m.columnAtX(msg.X)
	if !ok {
		return m, nil
	}
	return m.setDropTarget(col)
}

// handleMouseRelease drops the dragged task on the column under the pointer.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.mouseDrag {
		return m, nil
	}
	m.mouseDrag = false
	col, ok := m.columnAtX(msg.X)
	if !ok || col == m.mouseOrigin {
		m, _ = m.dispatch(board.CancelDrag{})
		return m, nil
	}
	m.dropTarget = col
	return m.dropOnTarget()
}

// modalOpen reports whether the editor or delete confirmation is showing.
func (m Model) modalOpen() bool {
	if _, pending := board.PendingDelete(m.snap.Confirm); pending {
		return true
	}
	return board.EditorOpen(m.snap.Editor)
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	if len(m.snap.Columns) == 0 {
		m.selectedColumn = 0
		m.selectedTask = 0
		m.dropTarget = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.snap.Columns)-1)
	m.dropTarget = clamp(m.dropTarget, 0, len(m.snap.Columns)-1)
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		m.selectedTask = 0
		return
	}
	m.selectedTask = clamp(m.selectedTask, 0, len(tasks)-1)
}

// currentColumn returns the selected rendered column.
func (m Model) currentColumn() (board.Column, bool) {
	if len(m.snap.Columns) == 0 {
		return board.Column{}, false
	}
	return m.snap.Columns[clamp(m.selectedColumn, 0, len(m.snap.Columns)-1)], true
}

// currentColumnTasks returns current column tasks.
func (m Model) currentColumnTasks() []domain.Task {
	col, ok := m.currentColumn()
	if !ok {
		return nil
	}
	return col.Tasks
}

// selectedTaskInCurrentColumn returns the task under the cursor.
func (m Model) selectedTaskInCurrentColumn() (domain.Task, bool) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

// focusTaskByID moves the cursor onto taskID when it is rendered.
func (m *Model) focusTaskByID(taskID string) {
	for colIdx, col := range m.snap.Columns {
		for taskIdx, task := range col.Tasks {
			if task.ID == taskID {
				m.selectedColumn = colIdx
				m.selectedTask = taskIdx
				return
			}
		}
	}
	m.clampSelections()
}

// errorStatus turns dispatch errors into status line text.
func errorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		return "title is required"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid status"
	case errors.Is(err, domain.ErrDuplicateTag):
		return "duplicate tag"
	default:
		return err.Error()
	}
}

// filterStatus describes the active tag filter.
func filterStatus(selected []string) string {
	if len(selected) == 0 {
		return "showing all tasks"
	}
	return "filter: #" + strings.Join(selected, " #")
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// wrapIndex returns current+delta wrapped into [0,total).
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := (current + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// modeLabel returns the header label for the active interaction.
func (m Model) modeLabel() string {
	switch {
	case m.help.ShowAll:
		return "help"
	case m.modalOpen():
		if _, pending := board.PendingDelete(m.snap.Confirm); pending {
			return "confirm"
		}
		if _, editing := m.snap.Editor.(board.EditorEditing); editing {
			return "edit task"
		}
		return "new task"
	case m.mode == modeFilter:
		return "filter"
	case m.mode == modeTaskInfo:
		return "task info"
	case m.snap.Dragging != "":
		return "grab"
	default:
		return "normal"
	}
}

// columnWidth returns column width.
func (m Model) columnWidth() int {
	return m.columnWidthFor(m.width)
}

// columnWidthFor returns column width for.
func (m Model) columnWidthFor(boardWidth int) int {
	if len(m.snap.Columns) == 0 {
		return 24
	}
	w := 28
	if boardWidth > 0 {
		// Per-column overhead: left/right border (2), horizontal padding (4), margin-right (1)
		const colOverhead = 7
		usable := boardWidth - len(m.snap.Columns)*colOverhead
		candidate := usable / len(m.snap.Columns)
		if candidate > 0 {
			w = candidate
		}
	}
	if w < 24 {
		return 24
	}
	if w > 42 {
		return 42
	}
	return w
}

// columnAtX returns the rendered column index under x.
func (m Model) columnAtX(x int) (int, bool) {
	if len(m.snap.Columns) == 0 {
		return 0, false
	}
	colWidth := m.columnWidth() + 5 // border + padding approximation for mouse hit testing
	for idx := range m.snap.Columns {
		start := idx * colWidth
		end := start + colWidth
		if x >= start && x < end {
			return idx, true
		}
	}
	return 0, false
}

// columnHeight returns column height.
func (m Model) columnHeight() int {
	headerLines := 3
	footerLines := 4
	h := m.height - headerLines - footerLines
	if h < 14 {
		return 14
	}
	return h
}

// boardTop handles board top.
func (m Model) boardTop() int {
	// mouse coordinates from tea are 1-based
	// header + spacer
	return 3
}

// taskIndexAtRow returns task index at row.
func (m Model) taskIndexAtRow(tasks []domain.Task, row int) int {
	if len(tasks) == 0 {
		return 0
	}
	if row <= 0 {
		return 0
	}
	width := m.cardWidth()
	current := 0
	for idx, task := range tasks {
		start := current
		span := len(m.cardLines(task, width))
		if idx < len(tasks)-1 {
			span++
		}
		end := start + span - 1
		if row >= start && row <= end {
			return idx
		}
		current += span
	}
	return len(tasks) - 1
}

// cardWidth is the usable text width inside a column.
func (m Model) cardWidth() int {
	// padding (4) + card prefix (2) + slack for border accounting (2)
	return max(8, m.columnWidth()-8)
}

// cardLines renders the plain text lines of one card.
func (m Model) cardLines(task domain.Task, width int) []string {
	expanded := slices.Contains(m.snap.Expanded, task.ID)
	var lines []string
	if expanded {
		lines = append(lines, wrapRunes(task.Title, width)...)
	} else {
		lines = append(lines, truncate(clipTitle(task.Title, m.cards.TitleLimit), width))
	}
	if len(task.Tags) == 0 {
		return lines
	}
	if expanded {
		lines = append(lines, wrapRunes("#"+strings.Join(task.Tags, " #"), width)...)
		return lines
	}
	lines = append(lines, truncate(summarizeTags(task.Tags, m.cards.TagsLimit), width))
	return lines
}

// cardTruncated reports whether the collapsed card hides any content.
func (m Model) cardTruncated(task domain.Task) bool {
	return len([]rune(task.Title)) > m.cards.TitleLimit || len(task.Tags) > m.cards.TagsLimit
}

// clipTitle cuts a title to limit runes, marking the cut with "…".
func clipTitle(title string, limit int) string {
	rs := []rune(title)
	if limit <= 0 || len(rs) <= limit {
		return title
	}
	return string(rs[:limit]) + "…"
}

// summarizeTags summarizes tags.
func summarizeTags(tags []string, maxTags int) string {
	if len(tags) == 0 {
		return ""
	}
	visible := tags
	extra := 0
	if len(tags) > maxTags {
		visible = tags[:max(0, maxTags)]
		extra = len(tags) - len(visible)
	}
	joined := ""
	if len(visible) > 0 {
		joined = "#" + strings.Join(visible, " #")
	}
	if extra > 0 {
		joined = strings.TrimSpace(joined + fmt.Sprintf(" +%d more", extra))
	}
	return joined
}

// wrapRunes splits s into lines of at most width runes.
func wrapRunes(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	rs := []rune(s)
	if len(rs) == 0 {
		return []string{""}
	}
	out := make([]string, 0, len(rs)/width+1)
	for len(rs) > width {
		out = append(out, string(rs[:width]))
		rs = rs[width:]
	}
	return append(out, string(rs))
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// statusColor returns the accent used for a status column.
func statusColor(status domain.Status) color.Color {
	switch status {
	case domain.StatusInProgress:
		return lipgloss.Color("214")
	case domain.StatusDone:
		return lipgloss.Color("42")
	default:
		return lipgloss.Color("62")
	}
}
