package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	search  key.Binding
	related key.Binding
	next    key.Binding
	newText key.Binding
	abort   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		search:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		related: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "related")),
		next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		newText: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "new search")),
		abort:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.next, k.related},
		{k.newText, k.abort, k.quit},
	}
}
