package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// helpHeight is the space kept below the list for the calendar and help.
const helpHeight = 14

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.list.SetSize(size.Width, max(size.Height-helpHeight, 5))
		m.help.Width = size.Width
	}

	if m.state == StateAddHabit {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Add):
			m.habitForm = &HabitForm{}
			m.form = NewHabitForm(m.habitForm)
			m.state = StateAddHabit
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Mark):
			m.toggleToday(true)
			return m, nil
		case key.Matches(msg, m.keys.Unmark):
			m.toggleToday(false)
			return m, nil
		case key.Matches(msg, m.keys.CycleView):
			m.resolution = (m.resolution + 1) % len(resolutions)
			m.offset = 0
			return m, nil
		case key.Matches(msg, m.keys.PrevMonth):
			m.offset--
			return m, nil
		case key.Matches(msg, m.keys.NextMonth):
			if m.offset < 0 {
				m.offset++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) toggleToday(done bool) {
	sum, ok := m.selected()
	if !ok {
		return
	}
	if done {
		_, m.err = m.svc.Log(m.userID, sum.Habit.ID, sum.Today)
	} else {
		_, m.err = m.svc.Unlog(m.userID, sum.Habit.ID, sum.Today)
	}
	m.refresh()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateBoard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if _, err := m.svc.CreateHabit(m.userID, m.habitForm.Name, m.habitForm.Theme); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.refresh()
		}
		m.state = StateBoard
		return m, nil
	case huh.StateAborted:
		m.state = StateBoard
		return m, nil
	}
	return m, cmd
}
