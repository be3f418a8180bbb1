// Package server is a loopback development implementation of the skipify HTTP API.
//
// It keeps users, songs, playlists and favorites in memory and serves the same endpoints the client adapter
// calls, with the same {"error": "..."} bodies on failure. It exists so the CLI and TUI can be exercised
// end to end without the production backend, and so client tests can run against real handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers in
// reverse order (last added executes first). [BasicRouter] uses [http.ServeMux] method patterns, so handlers
// read path parameters with [http.Request.PathValue].
//
// # Handlers
//
// Custom handlers implement [Handler], which adds the route patterns a handler serves:
//   - [AuthHandler] : POST /auth/register and POST /auth/login (no bearer required)
//   - [LibraryHandler] : songs, playlists and favorites, behind [RequireBearer]
//
// Uploaded file contents are discarded after validation; only metadata is kept.
package server
