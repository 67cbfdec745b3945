package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	focus  key.Binding
	play   key.Binding
	toggle key.Binding
	remove key.Binding
	load   key.Binding
	export key.Binding
	back   key.Binding
	submit key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		focus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		play:   key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("enter/p", "play")),
		toggle: key.NewBinding(key.WithKeys(" ", "space", "a"), key.WithHelp("space/a", "add/remove")),
		remove: key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x/d", "remove")),
		load:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import playlist")),
		export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "import")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.focus},
		{k.play, k.toggle, k.remove},
		{k.load, k.export, k.back, k.quit},
	}
}
