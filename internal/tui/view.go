package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/lists/internal/app"
	"github.com/evanschultz/lists/internal/domain"
)

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the lists panel, the tasks panel and the mode panel below them.
func (m Model) render() string {
	if !m.ready {
		return "loading..."
	}
	snap := m.state.Snapshot()

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(muted)
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)

	width := max(m.width, 24)
	listOuter := max(8, width*m.ui.ListPanelPercent/100)
	taskOuter := max(8, width-listOuter)

	modeLines := m.modeLines(snap, promptStyle, statusStyle, errorStyle, width-4)
	modePanel := panelStyle.
		Width(max(1, width-2)).
		Render(strings.Join(append([]string{titleStyle.Render("Mode")}, modeLines...), "\n"))

	panelHeight := max(3, m.height-lipgloss.Height(modePanel))
	inner := max(1, panelHeight-2)

	// Lists panel.
	listRows := make([]string, 0, len(snap.Lists))
	for idx, list := range snap.Lists {
		row := truncate(list.Name, listOuter-4)
		if idx == snap.SelectedList {
			row = selectedStyle.Render(row)
		}
		listRows = append(listRows, row)
	}
	if len(listRows) == 0 {
		listRows = append(listRows, emptyStyle.Render(truncate("(no lists, press n)", listOuter-4)))
	}
	listTitle := titleStyle.Render(fmt.Sprintf("Lists (%d)", len(snap.Lists)))
	listContent := panelContent(listTitle, listRows, snap.SelectedList, inner)

	// Tasks panel.
	taskTitle := "Tasks"
	var taskRows []string
	if snap.SelectedList >= 0 {
		list := snap.Lists[snap.SelectedList]
		done, total := list.Progress()
		taskTitle = fmt.Sprintf("Tasks %d/%d", done, total)
		for idx, task := range list.Tasks {
			row := truncate(m.taskLine(task), taskOuter-4)
			if idx == snap.SelectedTask {
				row = selectedStyle.Render(row)
			}
			taskRows = append(taskRows, row)
		}
		if len(taskRows) == 0 {
			taskRows = append(taskRows, emptyStyle.Render("(no tasks, press N)"))
		}
	} else {
		taskRows = append(taskRows, emptyStyle.Render("(no list selected)"))
	}
	taskContent := panelContent(titleStyle.Render(taskTitle), taskRows, snap.SelectedTask, inner)

	listPanel := panelStyle.Width(max(1, listOuter-2)).BorderForeground(accent).Render(listContent)
	taskPanel := panelStyle.Width(max(1, taskOuter-2)).Render(taskContent)
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, taskPanel)
	return body + "\n" + modePanel
}

// taskLine prefixes a task with its completion glyph.
func (m Model) taskLine(task domain.Task) string {
	glyph := m.ui.PendingGlyph
	if task.Completed {
		glyph = m.ui.DoneGlyph
	}
	return glyph + " " + task.Name
}

// modeLines renders the prompt for the active mode plus the status line.
func (m Model) modeLines(snap app.Snapshot, promptStyle, statusStyle, errorStyle lipgloss.Style, width int) []string {
	var lines []string
	const back = "   [esc] return"
	switch snap.Mode {
	case app.ModeCreatingList:
		lines = append(lines, promptStyle.Render("Creating new list. Name: "+snap.Input+back))
	case app.ModeCreatingTask:
		lines = append(lines, promptStyle.Render("Creating new task. Name: "+snap.Input+back))
	case app.ModeEditingList:
		lines = append(lines, promptStyle.Render("Editing list. New name: "+snap.Input+back))
	case app.ModeEditingTask:
		lines = append(lines, promptStyle.Render("Editing task. New name: "+snap.Input+back))
	case app.ModeConfirmDeleteList:
		lines = append(lines, promptStyle.Render("Delete list? (y/n)"+back))
	case app.ModeConfirmDeleteTask:
		lines = append(lines, promptStyle.Render("Delete task? (y/n)"+back))
	default:
		helpBubble := m.help
		helpBubble.SetWidth(max(0, width))
		lines = append(lines, helpBubble.View(m.keys))
	}
	if snap.Mode.IsTextEntry() {
		lines = append(lines, statusStyle.Render(m.help.ShortHelpView(m.keys.textEntryHelp())))
	}
	if snap.Mode.IsConfirm() {
		lines = append(lines, statusStyle.Render(m.help.ShortHelpView(m.keys.confirmHelp())))
	}
	if strings.TrimSpace(m.status) != "" {
		if m.statusErr {
			lines = append(lines, errorStyle.Render(m.status))
		} else {
			lines = append(lines, statusStyle.Render(m.status))
		}
	}
	return lines
}

// panelContent places a title above a window of rows that keeps selected visible.
func panelContent(title string, rows []string, selected, height int) string {
	window := max(1, height-1)
	start, end := windowBounds(len(rows), max(selected, 0), window)
	lines := append([]string{title}, rows[start:end]...)
	return fitLines(strings.Join(lines, "\n"), height)
}

// windowBounds returns an inclusive-exclusive list window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	half := windowSize / 2
	start := max(0, selected-half)
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// fitLines pads or truncates content to exactly maxLines lines.
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

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	return min(max(v, minV), maxV)
}

// truncate shortens s to at most limit terminal cells, marking the cut with an
// ellipsis. Wide glyphs count as two cells.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(s, limit, "…")
}
