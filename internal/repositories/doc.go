// Package repositories implements SQLite persistence for the client session.
//
// Key Implementations:
//   - [KVRepository] : msgpack-encoded values keyed by name in kv_entries
//   - [LoginHistoryRepository] : one row per successful login
//   - [SessionCacheAdapter] : implements tasks.SessionStore on top of both and restores
//     the saved cookie into the API client at startup
package repositories
