// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI shows one tab per collection, each rendering the merged local and remote snapshot:
//  1. [SongsTab] : device and server songs, with favorite markers and playback
//  2. [PlaylistsTab] : playlists with their member count
//  3. [FavoritesTab] : favorite marks resolved against the song library
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Manager events flow through a channel and are shown in the status line without blocking the managers.
//
// Keyboard: tab switches views, r refreshes, f toggles a favorite, d deletes, enter plays, space pauses, q quits.
package ui
