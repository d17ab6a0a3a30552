package tui

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/lists/internal/app"
	"github.com/evanschultz/lists/internal/export"
)

// dispatchKey routes a key press by interaction mode.
func (m Model) dispatchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch mode := m.state.Mode(); {
	case mode == app.ModeNormal:
		return m.handleNormalModeKey(msg)
	case mode.IsTextEntry():
		return m.handleInputModeKey(msg)
	case mode.IsConfirm():
		return m.handleConfirmModeKey(msg)
	default:
		m.logger.Warn("unknown mode, resetting", "mode", mode)
		m.state.ResetMode()
		return m, nil
	}
}

// handleNormalModeKey handles commands and navigation.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	_, hasList := m.state.SelectedListIndex()
	_, hasTask := m.state.SelectedTaskIndex()

	switch {
	case key.Matches(msg, m.keys.quit):
		if err := m.state.Save(m.ctx); err != nil {
			return m.finish("quit", err, "")
		}
		m.logger.Info("quit requested")
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.newList):
		m.enterMode(app.ModeCreatingList)
		return m, nil
	case key.Matches(msg, m.keys.newTask):
		m.enterMode(app.ModeCreatingTask)
		return m, nil
	case key.Matches(msg, m.keys.editList):
		if hasList {
			m.enterMode(app.ModeEditingList)
		}
		return m, nil
	case key.Matches(msg, m.keys.editTask):
		if hasTask {
			m.enterMode(app.ModeEditingTask)
		}
		return m, nil
	case key.Matches(msg, m.keys.deleteList):
		if hasList {
			m.enterMode(app.ModeConfirmDeleteList)
		}
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		if hasTask {
			m.enterMode(app.ModeConfirmDeleteTask)
		}
		return m, nil
	case key.Matches(msg, m.keys.toggleTask):
		if !hasTask {
			return m, nil
		}
		return m.finish("toggle task", m.state.ToggleSelectedTaskStatus(m.ctx), "")
	case key.Matches(msg, m.keys.nextList):
		m.state.SelectNextList()
		return m, nil
	case key.Matches(msg, m.keys.previousList):
		m.state.SelectPreviousList()
		return m, nil
	case key.Matches(msg, m.keys.nextTask):
		m.state.SelectNextTask()
		return m, nil
	case key.Matches(msg, m.keys.previousTask):
		m.state.SelectPreviousTask()
		return m, nil
	case key.Matches(msg, m.keys.copyList):
		return m.copySelectedList()
	default:
		return m, nil
	}
}

// handleInputModeKey edits the input buffer and submits it on enter.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.state.ResetMode()
		m.setStatus("")
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m.submitInput()
	case key.Matches(msg, m.keys.backspace):
		m.state.Backspace()
		return m, nil
	case msg.Text != "":
		m.state.AppendInput(msg.Text)
		return m, nil
	default:
		return m, nil
	}
}

// handleConfirmModeKey answers a pending delete.
func (m Model) handleConfirmModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	mode := m.state.Mode()
	switch {
	case key.Matches(msg, m.keys.confirmYes):
		m.state.ResetMode()
		if mode == app.ModeConfirmDeleteList {
			return m.finish("delete list", m.state.DeleteSelectedList(m.ctx), "list deleted")
		}
		return m.finish("delete task", m.state.DeleteSelectedTask(m.ctx), "task deleted")
	case key.Matches(msg, m.keys.confirmNo):
		m.state.ResetMode()
		m.setStatus("")
		return m, nil
	default:
		return m, nil
	}
}

// submitInput runs the operation bound to the current text-entry mode with
// the buffered name, then returns to normal mode.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	mode := m.state.Mode()
	name := m.state.Input()
	m.state.ResetMode()

	switch mode {
	case app.ModeCreatingList:
		return m.finish("create list", m.state.CreateList(m.ctx, name), "list created")
	case app.ModeEditingList:
		return m.finish("edit list", m.state.EditSelectedList(m.ctx, name), "list renamed")
	case app.ModeCreatingTask:
		return m.finish("create task", m.state.AddTaskToSelectedList(m.ctx, name), "task added")
	case app.ModeEditingTask:
		return m.finish("edit task", m.state.EditSelectedTask(m.ctx, name), "task renamed")
	default:
		return m, nil
	}
}

// enterMode switches to mode with an empty buffer.
func (m *Model) enterMode(mode app.Mode) {
	m.state.ClearInput()
	m.state.SetMode(mode)
	m.setStatus("")
}

// copySelectedList writes the selected list to the clipboard as a markdown checklist.
func (m Model) copySelectedList() (tea.Model, tea.Cmd) {
	list, ok := m.state.SelectedList()
	if !ok {
		return m.finish("copy list", app.ErrNoListSelected, "")
	}
	if err := m.copyText(export.Markdown(list)); err != nil {
		return m.finish("copy list", fmt.Errorf("copy to clipboard: %w", err), "")
	}
	m.logger.Debug("list copied", "list", list.Name)
	m.setStatus(fmt.Sprintf("copied %q to clipboard", list.Name))
	return m, nil
}
