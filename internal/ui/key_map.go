package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	next     key.Binding
	play     key.Binding
	pause    key.Binding
	refresh  key.Binding
	favorite key.Binding
	remove   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		pause:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next},
		{k.play, k.pause, k.favorite},
		{k.remove, k.refresh, k.quit},
	}
}

// forTab returns the short help shown under the given tab.
func (k keyMap) forTab(t Tab) []key.Binding {
	switch t {
	case SongsTab:
		return []key.Binding{k.play, k.pause, k.favorite, k.remove, k.next, k.refresh, k.quit}
	default:
		return []key.Binding{k.remove, k.next, k.refresh, k.quit}
	}
}
