package portal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/golden-vcr/inventory-portal/internal/backend"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests tags each request with an ID (reusing the caller's X-Request-Id if one
// was sent), carries that ID through to any backend calls, and logs and counts the
// request once it's been served
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		requestId := req.Header.Get(backend.RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		res.Header().Set(backend.RequestIdHeader, requestId)
		req = req.WithContext(backend.ContextWithRequestId(req.Context(), requestId))

		route := s.routeName(req)
		rec := &statusRecorder{ResponseWriter: res, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, req)
		elapsed := time.Since(start)

		s.metrics.requests.WithLabelValues(route, req.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.InfoContext(req.Context(), "handled request",
			"requestId", requestId,
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// routeName identifies the route a request resolves to by its path template, so that
// metrics aren't labeled with IDs. Requests are logged before routing takes place,
// so the route is looked up rather than read from the request context.
func (s *Server) routeName(req *http.Request) string {
	var match mux.RouteMatch
	if s.router.Match(req, &match) && match.Route != nil {
		if tpl, err := match.Route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}
