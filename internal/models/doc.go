// Package models defines the entity kinds that flow between the on-device store, the remote API and
// the collection managers.
//
// Every kind implements [Entity]:
//   - [User] : session identity, or the synthesized guest while disconnected
//   - [Song] : a playable track
//   - [Playlist] : a named, ordered list of song id references
//   - [FavoriteMark] : a membership record keyed by song id
//
// [Source] is provenance only. Identity is the id, and local ids ("local_" prefix) never collide with
// server-assigned ones. [PlaybackState] models the player transitions the TUI drives.
package models
