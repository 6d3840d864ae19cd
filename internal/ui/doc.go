// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the same data as the web interface:
//  1. [UserListView] : Browse users
//  2. [MovieListView] : The selected user's movies
//  3. [ConfirmDeleteView] : Confirm deleting the selected movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Storage calls run as [tea.Cmd] functions so the interface never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
