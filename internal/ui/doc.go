// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin view over the store:
//  1. [PlaylistsView] : featured playlists, m loads more, r refreshes
//  2. [DetailView] : tracks of the selected playlist, s toggles the subscription
//  3. [CommentsView] : comments of the selected playlist, m loads more
//
// Keys put actions through the engine; the model never calls the API itself. A store
// listener forwards every commit to the program, so loading spinners and the toast status
// line follow the state as tasks run.
package ui
