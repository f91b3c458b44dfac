package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for the roster list, confirmation prompt, and
// result screen. List navigation stays with the bubbles list component.
type keyMap struct {
	clone   key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		clone:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "clone")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clone again")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
