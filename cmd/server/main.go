package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/golden-vcr/inventory-portal/internal/auth"
	"github.com/golden-vcr/inventory-portal/internal/backend"
	"github.com/golden-vcr/inventory-portal/internal/health"
	"github.com/golden-vcr/inventory-portal/internal/inventory"
	"github.com/golden-vcr/inventory-portal/internal/logger"
	"github.com/golden-vcr/inventory-portal/internal/portal"
	"github.com/golden-vcr/inventory-portal/internal/session"
	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5003"`

	ApiBaseUrl     string        `env:"API_BASE_URL" required:"true"`
	AuthBaseUrl    string        `env:"AUTH_BASE_URL"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" default:"30s"`

	Environment string `env:"ENVIRONMENT" default:"development"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`
	CorsOrigins string `env:"CORS_ORIGINS" default:"http://localhost:3000"`
}

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx, close := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM)
	defer close()

	l := logger.New(config.LogLevel, config.LogFormat, os.Stderr)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backendConfig := backend.DefaultConfig(config.ApiBaseUrl)
	backendConfig.Timeout = config.BackendTimeout
	backendConfig.Metrics = backend.NewMetrics(registry)
	backendConfig.Logger = l
	backendClient := backend.NewClient(backendConfig)

	// The identity endpoints live under /auth unless configured otherwise; they share
	// the backend client's circuit breaker and metrics
	authBaseUrl := config.AuthBaseUrl
	if authBaseUrl == "" {
		authBaseUrl = strings.TrimSuffix(config.ApiBaseUrl, "/") + "/auth"
	}
	identityClient := auth.NewIdentityClient(backendClient.WithBaseURL(authBaseUrl))
	gateway := auth.NewGateway(identityClient, l)

	cookies := tokenstore.DefaultCookieOptions(config.Environment == "production")
	opener := session.NewOpener(gateway, cookies, l)

	srv := portal.New(opener, inventory.NewClient(backendClient), health.NewServer(backendClient), portal.Options{
		CORSOrigins: parseOrigins(config.CorsOrigins),
		Registry:    registry,
		Logger:      l,
	})
	addr := fmt.Sprintf("%s:%d", config.BindAddr, config.ListenPort)
	server := &http.Server{Addr: addr, Handler: srv}

	fmt.Printf("Listening on %s...\n", addr)
	var wg errgroup.Group
	wg.Go(server.ListenAndServe)

	select {
	case <-ctx.Done():
		fmt.Printf("Received signal; closing server...\n")
		server.Shutdown(context.Background())
	}

	err = wg.Wait()
	if err == http.ErrServerClosed {
		fmt.Printf("Server closed.\n")
	} else {
		log.Fatalf("error running server: %v", err)
	}
}

func parseOrigins(s string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
