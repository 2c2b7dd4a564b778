package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailypunch/internal/render"
)

var (
	docStyle   = lipgloss.NewStyle().Padding(1, 2)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StateAddHabit {
		return docStyle.Render(m.form.View())
	}

	parts := []string{m.list.View()}
	if sum, ok := m.selected(); ok {
		view, err := m.svc.View(m.userID, sum.Habit.ID, m.Resolution(), m.offset)
		if err == nil {
			parts = append(parts, render.View(view, sum.Habit.Theme))
		}
	} else {
		parts = append(parts, emptyStyle.Render("No habits yet. Press 'a' to add one."))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
