package tokenstore

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golden-vcr/inventory-portal/internal/identity"
)

// Names of the three durable entries. These are shared with the browser-side code
// that has historically read and written the same cookies, so they must not change.
const (
	AccessTokenName  = "jwt-token"
	RefreshTokenName = "refresh-jwt-cookie"
	UserDataName     = "user-data"
)

// DefaultTTL is the lifetime of every entry written by a Store
const DefaultTTL = 7 * 24 * time.Hour

// ErrWriteFailed is returned when credentials could not be persisted in full
var ErrWriteFailed = errors.New("failed to store credentials")

// Medium is the storage mechanism underlying a Store: request/response cookies in
// the portal, a file on disk for the CLI, or a plain map in tests. A Medium is
// responsible for expiring entries once their TTL has elapsed.
type Medium interface {
	Get(name string) (string, bool)
	Set(name string, value string, ttl time.Duration) error
	Delete(name string) error
}

// Record is the full set of identity material held in a Store
type Record struct {
	User         identity.User
	AccessToken  string
	RefreshToken string
}

// Store is the sole reader and writer of durable identity material. All three
// entries are written together and read together: a partially-populated Store
// reads as empty.
type Store struct {
	medium Medium
	ttl    time.Duration
	logger *slog.Logger
}

func NewStore(medium Medium) *Store {
	return &Store{
		medium: medium,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
}

// WithLogger returns a copy of the Store that reports storage faults to the given
// logger
func (s *Store) WithLogger(logger *slog.Logger) *Store {
	cpy := *s
	cpy.logger = logger
	return &cpy
}

// Write persists the access token, identity record, and refresh token from the
// given credentials. If any entry can not be written, any entries that were
// written are removed again and an error wrapping ErrWriteFailed is returned.
func (s *Store) Write(creds *identity.Credentials) error {
	userData, err := identity.FormatUser(creds.User())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	entries := []struct {
		name  string
		value string
	}{
		{AccessTokenName, creds.AccessToken},
		{UserDataName, userData},
		{RefreshTokenName, creds.RefreshToken},
	}
	for _, entry := range entries {
		if err := s.medium.Set(entry.name, entry.value, s.ttl); err != nil {
			s.Clear()
			return fmt.Errorf("%w: writing %s: %v", ErrWriteFailed, entry.name, err)
		}
	}
	return nil
}

// Read returns the stored record, or false if any entry is missing or the stored
// identity record can not be parsed
func (s *Store) Read() (Record, bool) {
	accessToken, ok := s.lookup(AccessTokenName)
	if !ok {
		return Record{}, false
	}
	refreshToken, ok := s.lookup(RefreshTokenName)
	if !ok {
		return Record{}, false
	}
	userData, ok := s.lookup(UserDataName)
	if !ok {
		return Record{}, false
	}
	user, err := identity.ParseUser(userData)
	if err != nil {
		s.logger.Debug("ignoring stored identity record", "error", err)
		return Record{}, false
	}
	return Record{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, true
}

// RefreshToken looks up the refresh token on its own, regardless of whether the
// rest of the record is intact
func (s *Store) RefreshToken() (string, bool) {
	return s.lookup(RefreshTokenName)
}

// Clear removes all entries. It is safe to call on an empty Store, and storage
// faults are logged rather than returned.
func (s *Store) Clear() {
	for _, name := range []string{AccessTokenName, UserDataName, RefreshTokenName} {
		if err := s.medium.Delete(name); err != nil {
			s.logger.Warn("failed to clear stored credential", "name", name, "error", err)
		}
	}
}

// Cookies returns the entries currently present in the Store, in the form they're
// forwarded to the backend with each request
func (s *Store) Cookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, 3)
	for _, name := range []string{AccessTokenName, RefreshTokenName, UserDataName} {
		if value, ok := s.lookup(name); ok {
			cookies = append(cookies, &http.Cookie{Name: name, Value: EncodeValue(value)})
		}
	}
	return cookies
}

func (s *Store) lookup(name string) (string, bool) {
	value, ok := s.medium.Get(name)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
