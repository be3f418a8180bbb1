// Package repositories implements the on-device key-value persistence used by the session and the
// collection managers.
//
// Key Implementations:
//   - [SQLiteStore] : kv_store table in a SQLite database, created by the embedded migrations
//   - [BoltStore] : single bucket in a bbolt file
//   - [MemoryStore] : process-local map, used for tests and storage.backend = "memory"
//   - [LocalStore] : typed JSON load/save over any [KeyValueStore]
//
// Values are opaque strings. Each key is written independently; there are no cross-key transactions.
// [LocalStore] never surfaces storage errors to callers: a missing or unreadable value loads as an empty
// sequence and a failed save is logged.
package repositories
