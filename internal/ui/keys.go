package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding the console responds to.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Undo     key.Binding
	Remove   key.Binding
	Skip     key.Binding
	Dump     key.Binding
	Reload   key.Binding
	Insert   key.Binding
	Monitor  key.Binding
	Meters   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "select up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "select down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("shift+↑/K", "move item up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("shift+↓/J", "move item down"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo reorder"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove item"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Dump: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dump log"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload log"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert cart"),
		),
		Monitor: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle monitor"),
		),
		Meters: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle meters"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveUp, k.MoveDown, k.Undo, k.Skip, k.Monitor, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.MoveUp, k.MoveDown, k.Undo, k.Remove, k.Insert},
		{k.Skip, k.Dump, k.Reload},
		{k.Monitor, k.Meters, k.Help, k.Quit},
	}
}
