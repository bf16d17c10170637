package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	AddSelect key.Binding
	Toggle    key.Binding
	Mode      key.Binding
	Sort      key.Binding
	Drag      key.Binding
	Before    key.Binding
	After     key.Binding
	Into      key.Binding
	Shift     key.Binding
	Ctrl      key.Binding
	Alt       key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		AddSelect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "add to selection")),
		Toggle:    key.NewBinding(key.WithKeys("tab", "o"), key.WithHelp("tab", "open/close")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "view mode")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Drag:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pick up row")),
		Before:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "before")),
		After:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "after")),
		Into:      key.NewBinding(key.WithKeys("="), key.WithHelp("=", "into")),
		Shift:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "shift")),
		Ctrl:      key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "ctrl")),
		Alt:       key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "alt")),
		Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Toggle, k.Drag, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.AddSelect, k.Toggle},
		{k.Mode, k.Sort, k.Help, k.Quit},
		{k.Drag, k.Before, k.After, k.Into, k.Drop, k.Cancel},
		{k.Shift, k.Ctrl, k.Alt},
	}
}

// dragKeyMap is the help shown while a drag is in progress.
type dragKeyMap struct{ keyMap }

func (k dragKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Before, k.After, k.Into, k.Shift, k.Ctrl, k.Alt, k.Drop, k.Cancel}
}
