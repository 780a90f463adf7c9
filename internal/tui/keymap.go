package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the board key bindings.
type keyMap struct {
	quit          key.Binding
	toggleHelp    key.Binding
	listLeft      key.Binding
	listRight     key.Binding
	cardUp        key.Binding
	cardDown      key.Binding
	info          key.Binding
	move          key.Binding
	closePopovers key.Binding
	copyID        key.Binding
}

// newKeyMap constructs the default bindings.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		listLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "list left")),
		listRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "list right")),
		cardUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		cardDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		info:          key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "more info")),
		move:          key.NewBinding(key.WithKeys("m", "space"), key.WithHelp("m/space", "move card")),
		closePopovers: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close info")),
		copyID:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	}
}

// ShortHelp returns the bindings shown in the help line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.info, k.move, k.closePopovers, k.toggleHelp, k.quit}
}

// FullHelp returns the bindings shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.info, k.move, k.closePopovers, k.copyID},
		{k.listLeft, k.listRight, k.cardUp, k.cardDown},
		{k.toggleHelp, k.quit},
	}
}
