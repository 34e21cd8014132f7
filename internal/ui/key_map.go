package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	add    key.Binding
	edit   key.Binding
	remove key.Binding
	yes    key.Binding
	no     key.Binding
	back   key.Binding
	next   key.Binding
	prev   key.Binding
	submit key.Binding
	toggle key.Binding
	pane   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		remove: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		yes:    key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes, delete")),
		no:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		pane:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pane, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.add, k.edit, k.remove},
		{k.next, k.prev, k.submit, k.toggle, k.back},
		{k.yes, k.no, k.pane, k.quit},
	}
}
