package interfaces

// TokenStore persists the session token across process restarts.
// Absence of a token means "logged out".
type TokenStore interface {
	LoadToken() (token string, ok bool, err error)
	SaveToken(token string) error
	ClearToken() error
}
