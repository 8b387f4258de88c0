package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/golden-vcr/inventory-portal/internal/backend"
)

type Status struct {
	IsReady bool   `json:"isReady"`
	Message string `json:"message"`
}

type GetBackendStatusFunc func(ctx context.Context) error
type GetBreakerStateFunc func() gobreaker.State

type Server struct {
	getBackendStatus GetBackendStatusFunc
	getBreakerState  GetBreakerStateFunc
	timeout          time.Duration
}

func NewServer(client *backend.Client) *Server {
	return &Server{
		getBackendStatus: client.Ping,
		getBreakerState:  client.BreakerState,
		timeout:          5 * time.Second,
	}
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	status := s.resolveStatus(req.Context())
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(status); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) resolveStatus(ctx context.Context) Status {
	if state := s.getBreakerState(); state == gobreaker.StateOpen {
		return Status{
			IsReady: false,
			Message: "Requests to the inventory backend are failing; the circuit breaker is open and calls are being refused until it recovers.",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.getBackendStatus(ctx); err != nil {
		return Status{
			IsReady: false,
			Message: fmt.Sprintf("The inventory backend could not be reached. (Error: %s)", err),
		}
	}

	return Status{
		IsReady: true,
		Message: "The inventory backend is reachable. The portal is fully operational!",
	}
}
