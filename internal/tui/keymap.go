package tui

import "charm.land/bubbles/v2/key"

// keyMap holds every binding the dispatcher matches on.
type keyMap struct {
	quit         key.Binding
	toggleHelp   key.Binding
	newList      key.Binding
	newTask      key.Binding
	editList     key.Binding
	editTask     key.Binding
	deleteList   key.Binding
	deleteTask   key.Binding
	toggleTask   key.Binding
	nextList     key.Binding
	previousList key.Binding
	nextTask     key.Binding
	previousTask key.Binding
	copyList     key.Binding

	cancel    key.Binding
	submit    key.Binding
	backspace key.Binding

	confirmYes key.Binding
	confirmNo  key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		newList:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
		newTask:      key.NewBinding(key.WithKeys("N", "shift+n"), key.WithHelp("N", "new task")),
		editList:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit list")),
		editTask:     key.NewBinding(key.WithKeys("E", "shift+e"), key.WithHelp("E", "edit task")),
		deleteList:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete list")),
		deleteTask:   key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "delete task")),
		toggleTask:   key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "toggle status")),
		nextList:     key.NewBinding(key.WithKeys("k", "down"), key.WithHelp("k/↓", "next list")),
		previousList: key.NewBinding(key.WithKeys("i", "up"), key.WithHelp("i/↑", "previous list")),
		nextTask:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next task")),
		previousTask: key.NewBinding(key.WithKeys("j", "left"), key.WithHelp("j/←", "previous task")),
		copyList:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy list")),

		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "return")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete char")),

		confirmYes: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "delete")),
		confirmNo:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "keep")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newList, k.newTask, k.editList, k.editTask, k.deleteList, k.deleteTask, k.toggleTask, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newList, k.editList, k.deleteList, k.copyList},
		{k.newTask, k.editTask, k.deleteTask, k.toggleTask},
		{k.nextList, k.previousList, k.nextTask, k.previousTask},
		{k.toggleHelp, k.quit},
	}
}

// textEntryHelp lists the bindings active while typing a name.
func (k keyMap) textEntryHelp() []key.Binding {
	return []key.Binding{k.submit, k.backspace, k.cancel}
}

// confirmHelp lists the bindings active while a delete waits for an answer.
func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.confirmYes, k.confirmNo}
}
