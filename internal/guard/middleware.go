package guard

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

// SnapshotFromRequest captures the path and cookies of an incoming request
func SnapshotFromRequest(req *http.Request) Snapshot {
	cookies := make(map[string]string)
	for _, c := range req.Cookies() {
		if _, seen := cookies[c.Name]; seen {
			continue
		}
		cookies[c.Name] = tokenstore.DecodeValue(c.Value)
	}
	return Snapshot{
		Path:    req.URL.Path,
		Cookies: cookies,
	}
}

// Middleware enforces the policy on every request that passes through it, answering
// with a temporary redirect whenever the caller may not proceed
func Middleware(p Policy, logger *slog.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			outcome := p.Decide(SnapshotFromRequest(req))
			if outcome == Allow {
				next.ServeHTTP(res, req)
				return
			}
			level := slog.LevelInfo
			if outcome == RedirectToLogin {
				level = slog.LevelDebug
			}
			logger.Log(req.Context(), level, "route guard redirected request",
				"path", req.URL.Path,
				"outcome", outcome.String(),
				"target", outcome.Target(),
			)
			http.Redirect(res, req, outcome.Target(), http.StatusTemporaryRedirect)
		})
	}
}
