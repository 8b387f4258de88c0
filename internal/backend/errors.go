package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnauthorized is matched (via errors.Is) by any *Error carrying a 401 status,
// so that callers can react to an expired or missing session uniformly
var ErrUnauthorized = errors.New("got 401 response from backend")

// ErrTransport is matched by any failure to get a response from the backend at all:
// DNS and connection errors, timeouts, and requests refused by an open circuit
var ErrTransport = errors.New("backend request failed")

const (
	unauthorizedMessage = "Unauthorized"
	fallbackMessage     = "An error occurred"

	// maxErrorBodySize caps how much of an error response we'll read looking for a
	// message
	maxErrorBodySize = 1 << 20
)

// Error is returned for any non-2xx response from the backend
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is identifies a 401 Error as ErrUnauthorized
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// transportError unwraps to both ErrTransport and the underlying cause
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTransport, e.err)
}

func (e *transportError) Unwrap() []error {
	return []error{ErrTransport, e.err}
}

// parseError builds an *Error from a non-2xx response. A 401 always carries the
// same message; otherwise we use the message from the backend's JSON body if it has
// one, falling back to a generic message.
func parseError(res *http.Response) *Error {
	if res.StatusCode == http.StatusUnauthorized {
		return &Error{Status: res.StatusCode, Message: unauthorizedMessage}
	}
	return &Error{
		Status:  res.StatusCode,
		Message: ReadErrorMessage(res.Body, fallbackMessage),
	}
}

// ReadErrorMessage extracts the 'message' field from a JSON error body, returning
// the given fallback if the body can't be parsed or carries no message
func ReadErrorMessage(body io.Reader, fallback string) string {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(b) == 0 {
		return fallback
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err != nil || payload.Message == "" {
		return fallback
	}
	return payload.Message
}
