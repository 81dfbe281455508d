package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up           key.Binding
	down         key.Binding
	enter        key.Binding
	back         key.Binding
	search       key.Binding
	clearSearch  key.Binding
	clearFilters key.Binding
	more         key.Binding
	favorite     key.Binding
	favorites    key.Binding
	trailer      key.Binding
	theme        key.Binding
	help         key.Binding
	quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		clearSearch:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear search")),
		clearFilters: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		more:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		favorite:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		favorites:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "favorites")),
		trailer:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open trailer")),
		theme:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.search, k.favorite, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.clearSearch, k.clearFilters, k.more},
		{k.favorite, k.favorites, k.trailer},
		{k.theme, k.help, k.quit},
	}
}
