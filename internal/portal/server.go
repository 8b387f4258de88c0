package portal

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/golden-vcr/inventory-portal/internal/auth"
	"github.com/golden-vcr/inventory-portal/internal/guard"
	"github.com/golden-vcr/inventory-portal/internal/inventory"
	"github.com/golden-vcr/inventory-portal/internal/session"
)

// MetricsPath serves prometheus metrics, outside the guard
const MetricsPath = "/metrics"

// Server is the portal: it serves the login page and the two dashboards behind the
// route guard, plus the JSON auth API and health check under /api
type Server struct {
	http.Handler

	opener    *session.Opener
	inventory *inventory.Client
	metrics   *Metrics
	logger    *slog.Logger
	router    *mux.Router
}

type Options struct {
	// CORSOrigins lists the origins permitted to call the /api routes from a browser
	CORSOrigins []string
	// Registry receives the portal's metrics and is exposed at /metrics; if nil, a
	// new registry is used
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

func New(opener *session.Opener, inventoryClient *inventory.Client, health http.Handler, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		opener:    opener,
		inventory: inventoryClient,
		metrics:   NewMetrics(registry),
		logger:    logger,
	}

	r := mux.NewRouter()
	s.router = r

	// The API has its own router so that CORS preflight requests are answered before
	// any method matching takes place
	api := mux.NewRouter()
	auth.NewServer(opener).RegisterRoutes(api.PathPrefix("/api/auth").Subrouter())
	api.Path("/api/health").Methods("GET").Handler(health)
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	})
	r.PathPrefix("/api/").Handler(c.Handler(api))

	r.Path(MetricsPath).Methods("GET").Handler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Path("/login").Methods("GET").HandlerFunc(s.handleLoginPage)
	r.Path("/login").Methods("POST").HandlerFunc(s.handleLoginSubmit)
	r.Path("/logout").Methods("POST").HandlerFunc(s.handleLogout)
	r.Path("/").Methods("GET").HandlerFunc(s.handleHome)
	r.Path("/admin").Methods("GET").HandlerFunc(s.handleAdmin)
	r.Path("/user").Methods("GET").HandlerFunc(s.handleUser)
	r.Path("/user/videos/{videoId}/activity").Methods("POST").HandlerFunc(s.handleRecordActivity)

	// The guard wraps the whole router rather than being attached as router
	// middleware: mux only runs middleware on matched routes, and every path that
	// isn't excluded must be guarded, including those that would 404 or 405
	s.Handler = s.logRequests(guard.Middleware(Policy(), logger)(r))
	return s
}

// Policy returns the route guard policy the portal enforces: the default policy,
// with logout open to everyone and metrics exempt
func Policy() guard.Policy {
	p := guard.DefaultPolicy
	p.PublicPaths = append(slices.Clone(p.PublicPaths), "/logout")
	p.ExcludedPrefixes = append(slices.Clone(p.ExcludedPrefixes), MetricsPath)
	return p
}
