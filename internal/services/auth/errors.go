package auth

import (
	"errors"
	"fmt"
)

// User-facing fallbacks when the service sends no detail of its own.
const (
	MsgCredentialsInvalid  = "Access credentials invalid"
	MsgRegistrationFailed  = "Identity could not be initialized"
	MsgIdentityDenied      = "Access Denied: Google Identity verification failed"
	MsgIdentityUnreachable = "Identity Service Connectivity Error"
)

// ErrInvalidInput is wrapped by every *Error raised before any network call.
var ErrInvalidInput = errors.New("invalid input")

// Error is a failed password login or registration.
type Error struct {
	Op      string // "login" or "register"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IdentityProviderError is a failed federated login. It is reported apart
// from password failures and never changes the session.
type IdentityProviderError struct {
	Message string
	Err     error
}

func (e *IdentityProviderError) Error() string {
	if e.Err == nil {
		return "identity provider: " + e.Message
	}
	return fmt.Sprintf("identity provider: %s: %v", e.Message, e.Err)
}

func (e *IdentityProviderError) Unwrap() error { return e.Err }

// Message returns the user-facing text of any error from this package, or
// err.Error() for anything else.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	var ie *IdentityProviderError
	if errors.As(err, &ie) {
		return ie.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
