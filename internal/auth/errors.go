package auth

import "errors"

// ErrInvalidCredentials is returned when the backend rejects a login attempt
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrLogoutRejected is returned when the backend refuses to revoke a refresh token.
// Local credentials are cleared regardless.
var ErrLogoutRejected = errors.New("logout rejected")

// ErrTransport is returned when the identity endpoint could not be reached
var ErrTransport = errors.New("identity endpoint unreachable")

const (
	defaultLoginFailureMessage  = "Authentication failed"
	defaultLogoutFailureMessage = "Logout failed"
)

// rejectionError unwraps to one of our sentinel errors, and carries the message the
// backend gave for the rejection so that it can be shown to the user verbatim
type rejectionError struct {
	kind    error
	message string
}

// Error returns the backend's message unadorned, since it's intended for display
func (e *rejectionError) Error() string {
	return e.message
}

func (e *rejectionError) Unwrap() error {
	return e.kind
}
