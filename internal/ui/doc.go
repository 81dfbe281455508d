// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a movie browser over the [tasks.Coordinator]:
//  1. [BrowseView] : Trending, search or filtered results, whichever the coordinator displays
//  2. [DetailView] : Runtime, credits and trailer of one movie
//  3. [FavoritesView] : The stored favorites
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Coordinator state changes flow through a subscription channel, so the list follows every mutation without polling.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, f, q) with contextual help displayed via
// charmbracelet/bubbles/help. The light and dark palettes follow the persisted theme preference.
package ui
