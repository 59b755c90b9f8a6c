package types

import "errors"

// ErrNotAuthenticated is returned by session-gated operations when no valid
// token is held. It is the only authentication failure surfaced to users.
var ErrNotAuthenticated = errors.New("not authenticated")

// SessionStatus is the lifecycle state of the current session.
type SessionStatus string

const (
	StatusUninitialized   SessionStatus = "uninitialized"
	StatusValidating      SessionStatus = "validating"
	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// String returns the string form of the status.
func (s SessionStatus) String() string { return string(s) }

// User is the identity record returned by the scoring service for a token.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is a point-in-time copy of the session state.
//
// User is non-nil if and only if Status is StatusAuthenticated.
type Session struct {
	Token  string        `json:"-"`
	User   *User         `json:"user,omitempty"`
	Status SessionStatus `json:"status"`
}

// Authenticated reports whether the session holds a validated user.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}
