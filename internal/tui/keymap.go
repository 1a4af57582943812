package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	reload        key.Binding
	toggleHelp    key.Binding
	moveLeft      key.Binding
	moveRight     key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	addTask       key.Binding
	editTask      key.Binding
	taskInfo      key.Binding
	deleteTask    key.Binding
	grab          key.Binding
	expand        key.Binding
	copyTask      key.Binding
	filter        key.Binding
	clearFilter   key.Binding
	toggleTodo    key.Binding
	toggleDoing   key.Binding
	toggleDone    key.Binding
	moveTaskLeft  key.Binding
	moveTaskRight key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		editTask:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit task")),
		taskInfo:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "task info")),
		deleteTask:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		grab:          key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "grab/drop task")),
		expand:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "show more/less")),
		copyTask:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		filter:        key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "filter tags")),
		clearFilter:   key.NewBinding(key.WithKeys("F", "shift+f"), key.WithHelp("F", "clear filter")),
		toggleTodo:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "toggle To Do")),
		toggleDoing:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "toggle In Progress")),
		toggleDone:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "toggle Done")),
		moveTaskLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move task left")),
		moveTaskRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move task right")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.editTask, k.grab, k.deleteTask, k.filter, k.expand, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.editTask, k.taskInfo, k.deleteTask, k.copyTask, k.expand, k.toggleHelp, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.grab, k.moveTaskLeft, k.moveTaskRight},
		{k.filter, k.clearFilter, k.toggleTodo, k.toggleDoing, k.toggleDone},
	}
}

// columnToggleIndex maps the 1/2/3 keys to a column position.
func columnToggleIndex(keyText string) (int, bool) {
	switch strings.TrimSpace(keyText) {
	case "1":
		return 0, true
	case "2":
		return 1, true
	case "3":
		return 2, true
	default:
		return 0, false
	}
}
