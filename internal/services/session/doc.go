// Package session owns the authentication session lifecycle.
//
// It restores a persisted token at startup, validates it against the
// scoring service, records the resolved user, and tears everything down on
// logout. Dependents subscribe to changes so session-scoped data is dropped
// whenever the token changes.
package session
