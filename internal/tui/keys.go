package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Intent  key.Binding
	Done    key.Binding
	Fail    key.Binding
	Answer  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Intent: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "set intention"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "complete intention"),
		),
		Fail: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "declare failure"),
		),
		Answer: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "answer quest"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
