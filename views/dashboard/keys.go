package dashboard

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Help      key.Binding

	NextHead    key.Binding
	PrevHead    key.Binding
	MoreK       key.Binding
	LessK       key.Binding
	AddPositive key.Binding
	AddNegative key.Binding
	Remove      key.Binding
	Export      key.Binding
	Refresh     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "analyze / calculate"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear hover"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextHead: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next head"),
		),
		PrevHead: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev head"),
		),
		MoreK: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more results"),
		),
		LessK: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer results"),
		),
		AddPositive: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "add positive word"),
		),
		AddNegative: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add negative word"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove word"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export PNG"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh view"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.Enter, k.Back, k.Tab, k.ShiftTab, k.Refresh},
		{k.PrevHead, k.NextHead, k.MoreK, k.LessK, k.Export},
		{k.AddPositive, k.AddNegative, k.Remove},
		{k.Help, k.Quit},
	}
}
