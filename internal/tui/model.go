// Package tui is the interactive habit board.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/render"
	"github.com/julianstephens/dailypunch/internal/streak"
)

type SessionState int

const (
	StateBoard SessionState = iota
	StateAddHabit
)

var resolutions = []streak.Resolution{streak.Week, streak.Month, streak.Year}

// Item is one habit row in the board list.
type Item struct {
	Summary habits.Summary
}

func (i Item) Title() string {
	mark := "○ "
	if i.Summary.CompletedOn(i.Summary.Today) {
		mark = "✓ "
	}
	name := i.Summary.Habit.Name
	if i.Summary.Habit.Emoji != "" {
		name = i.Summary.Habit.Emoji + " " + name
	}
	return mark + name
}

func (i Item) Description() string {
	desc := render.Streak(i.Summary.Streak)
	if i.Summary.Due {
		desc += " · due"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Summary.Habit.Name }

type Model struct {
	svc        *habits.Service
	userID     string
	state      SessionState
	keys       KeyMap
	help       help.Model
	list       list.Model
	form       *huh.Form
	habitForm  *HabitForm
	resolution int
	offset     int
	err        error
	quitting   bool
	width      int
	height     int
}

func NewModel(svc *habits.Service, userID string) Model {
	keys := DefaultKeyMap()
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Habits"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	m := Model{
		svc:    svc,
		userID: userID,
		keys:   keys,
		help:   help.New(),
		list:   l,
	}
	m.refresh()
	return m
}

// Run starts the board in the alternate screen.
func Run(svc *habits.Service, userID string) error {
	if _, err := tea.NewProgram(NewModel(svc, userID), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func (m *Model) refresh() {
	sums, err := m.svc.Summaries(m.userID, false)
	if err != nil {
		m.err = err
		return
	}
	items := make([]list.Item, len(sums))
	for i, s := range sums {
		items[i] = Item{Summary: s}
	}
	m.list.SetItems(items)
}

func (m Model) selected() (habits.Summary, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return habits.Summary{}, false
	}
	return item.Summary, true
}

func (m Model) Resolution() streak.Resolution {
	return resolutions[m.resolution]
}

func (m Model) Init() tea.Cmd {
	return nil
}
