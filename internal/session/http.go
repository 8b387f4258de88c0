package session

import (
	"log/slog"
	"net/http"

	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

// Opener creates a Manager for each incoming HTTP request, backed by that request's
// cookies
type Opener struct {
	gateway Gateway
	cookies tokenstore.CookieOptions
	logger  *slog.Logger
}

func NewOpener(gateway Gateway, cookies tokenstore.CookieOptions, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		gateway: gateway,
		cookies: cookies,
		logger:  logger,
	}
}

// Open returns an initialized Manager for the given exchange. Any changes to the
// session are written to res as Set-Cookie headers, so Open must be called before
// the response status is written.
func (o *Opener) Open(res http.ResponseWriter, req *http.Request) *Manager {
	jar := tokenstore.NewCookieJar(res, req, o.cookies)
	store := tokenstore.NewStore(jar).WithLogger(o.logger)
	m := NewManager(store, o.gateway)
	m.Init()
	return m
}
