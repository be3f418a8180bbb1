// Package services is the remote client adapter for the skipify HTTP API.
//
// [Client] owns the transport concerns shared by every endpoint:
//   - the bearer credential, attached by an [oauth2.Transport] over a static token source
//   - per-call deadlines (read class for list/create/update/delete, upload class for multipart uploads)
//   - an optional client-side request limiter
//   - mapping of outcomes to [shared.Failure] kinds
//
// An empty credential fails with [shared.Unauthenticated] before any request is built. A deadline that
// expires yields [shared.Timeout], a transport error yields [shared.Unreachable], and any non-2xx status
// yields [shared.Rejected] carrying the status and the body's "error" field. Nothing is retried.
//
// # Endpoint sets
//
// [SongEndpoints], [PlaylistEndpoints] and [FavoriteEndpoints] adapt the client to the collection
// managers' remote interface for one entity kind each. [Client.Login] and [Client.Register] are the only
// calls made without a credential.
package services
