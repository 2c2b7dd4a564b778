package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Add       key.Binding
	Mark      key.Binding
	Unmark    key.Binding
	CycleView key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark today"),
		),
		Unmark: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmark today"),
		),
		CycleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "week/month/year"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Mark, k.Unmark, k.CycleView, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Mark, k.Unmark},
		{k.CycleView, k.PrevMonth, k.NextMonth},
		{k.Help, k.Quit},
	}
}
