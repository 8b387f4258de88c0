package auth

import "github.com/golden-vcr/inventory-portal/internal/session"

// LoginRequest is the body accepted by POST /login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse reports the caller's session state after a request, along with
// where they should navigate next (if anywhere) and any error that occurred
type SessionResponse struct {
	session.State
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}
