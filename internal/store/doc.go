// Package store persists landval's session token between runs.
//
// Two implementations of domain.TokenStore are provided:
//   - TokenFileStore writes a single sealed file, replaced atomically.
//   - TokenSQLiteStore keeps the sealed token in a SQLite kv table whose
//     schema is managed by embedded migrations.
//
// Tokens are sealed with a key derived from the local user and host, so a
// copied file does not open elsewhere. Both stores are safe for concurrent use.
package store
