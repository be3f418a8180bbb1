// Package collections reconciles the local and remote sequences of one entity kind.
//
// A [Manager] holds two independent sequences per kind: local items persisted in the on-device store, and
// remote items holding the last successful fetch from the API. Which operations touch the network depends on
// the injected [Session]:
//   - [Manager.Refresh] always reloads local items and fetches remote items only when connected with a credential
//   - local mutations update memory first and then persist; persistence failures are logged, never returned
//   - [Manager.CreateRemote] and [Manager.UpdateRemote] re-fetch the whole remote sequence after success
//   - [Manager.DeleteRemote] removes the item from memory after success without a re-fetch
//
// A failed fetch clears the remote sequence. Remote failures are returned as [shared.Failure] values.
//
// # Concurrency
//
// Each read or replace of an in-memory sequence holds the manager's lock, but operations are not serialized
// end to end. A refresh racing a local create resolves last-write-wins.
//
// # Kinds
//
// [Library], [Playlists] and [Favorites] wrap a manager with the operations specific to songs, playlists and
// favorite marks. [MergedView] resolves favorite or playlist membership ids to labels.
//
// # Events
//
// Managers report progress on an optional channel. Sends never block; a full channel drops the event.
package collections
