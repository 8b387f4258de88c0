package guard

import (
	"strings"

	"github.com/golden-vcr/inventory-portal/internal/identity"
	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

// Outcome is the result of evaluating a request against a Policy
type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	RedirectToUser
	RedirectToAdmin
)

// Target returns the path a redirect outcome sends the caller to, or an empty string
// for Allow
func (o Outcome) Target() string {
	switch o {
	case RedirectToLogin:
		return identity.LoginPath
	case RedirectToUser:
		return identity.UserPath
	case RedirectToAdmin:
		return identity.AdminPath
	}
	return ""
}

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUser:
		return "redirect-to-user"
	case RedirectToAdmin:
		return "redirect-to-admin"
	}
	return "unknown"
}

// Snapshot is everything the guard may consider about a request: its path and the
// values of its cookies, keyed by name
type Snapshot struct {
	Path    string
	Cookies map[string]string
}

// Policy describes which paths are protected and how
type Policy struct {
	// PublicPaths are served to anyone, and must match the request path exactly
	PublicPaths []string
	// ExcludedPrefixes identify static assets, media, and API routes, which are not
	// subject to the guard at all
	ExcludedPrefixes []string
	// AdminArea and UserArea are path prefixes that require ROLE_ADMIN and ROLE_USER
	// respectively
	AdminArea string
	UserArea  string
}

// DefaultPolicy guards everything but the login page, static assets, media, and the
// API
var DefaultPolicy = Policy{
	PublicPaths: []string{identity.LoginPath},
	ExcludedPrefixes: []string{
		"/api",
		"/_next/static",
		"/_next/image",
		"/favicon.ico",
		"/public",
		"/videos",
	},
	AdminArea: identity.AdminPath,
	UserArea:  identity.UserPath,
}

// Decide evaluates a request against the DefaultPolicy
func Decide(s Snapshot) Outcome {
	return DefaultPolicy.Decide(s)
}

// Decide determines whether a request may proceed, and if not, where the caller
// should be sent instead. It performs no I/O and yields an outcome for every input.
func (p Policy) Decide(s Snapshot) Outcome {
	if p.isExempt(s.Path) {
		return Allow
	}

	accessToken, hasAccessToken := s.Cookies[tokenstore.AccessTokenName]
	userData, hasUserData := s.Cookies[tokenstore.UserDataName]
	if !hasAccessToken || !hasUserData || accessToken == "" {
		return RedirectToLogin
	}

	user, err := identity.ParseUser(userData)
	if err != nil {
		return RedirectToLogin
	}

	if p.AdminArea != "" && strings.HasPrefix(s.Path, p.AdminArea) && !user.HasRole(identity.RoleAdmin) {
		return RedirectToUser
	}
	if p.UserArea != "" && strings.HasPrefix(s.Path, p.UserArea) && !user.HasRole(identity.RoleUser) {
		return RedirectToAdmin
	}
	return Allow
}

func (p Policy) isExempt(path string) bool {
	for _, prefix := range p.ExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, public := range p.PublicPaths {
		if path == public {
			return true
		}
	}
	return false
}
