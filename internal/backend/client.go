package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const DefaultBaseURL = "http://localhost:8080/api/v1"

// RequestIdHeader carries a per-request correlation ID to the backend
const RequestIdHeader = "X-Request-Id"

var errServerFailure = errors.New("backend returned a server error")

// CredentialSource supplies the cookies that identify the caller to the backend
type CredentialSource interface {
	Cookies() []*http.Cookie
}

// Config holds the settings for a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Breaker    BreakerConfig
	HTTPClient *http.Client
	Metrics    *Metrics
	Logger     *slog.Logger
}

// BreakerConfig controls when the circuit breaker in front of the backend trips
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
		Breaker: BreakerConfig{
			Name:         "inventory-backend",
			MaxRequests:  1,
			Interval:     60 * time.Second,
			Timeout:      30 * time.Second,
			FailureRatio: 0.5,
			MinRequests:  5,
		},
	}
}

// Client makes requests to the inventory backend. Requests carry the cookies of the
// bound CredentialSource (if any) and never an Authorization header: the backend
// identifies callers by the same cookies the browser would send it.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	metrics *Metrics
	logger  *slog.Logger
	creds   CredentialSource
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	breakerCfg := cfg.Breaker
	settings := gobreaker.Settings{
		Name:        breakerCfg.Name,
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= breakerCfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("backend circuit breaker changed state",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.breakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	}
	metrics.breakerState.WithLabelValues(breakerCfg.Name).Set(0)

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		metrics: metrics,
		logger:  logger,
	}
}

// BaseURL returns the root URL against which endpoints are resolved
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithCredentials returns a copy of the Client that attaches the cookies from src to
// every request. The copy shares its circuit breaker and metrics with the original.
func (c *Client) WithCredentials(src CredentialSource) *Client {
	cpy := *c
	cpy.creds = src
	return &cpy
}

// WithBaseURL returns a copy of the Client that resolves endpoints against a
// different root, e.g. the identity endpoints under /auth
func (c *Client) WithBaseURL(baseURL string) *Client {
	cpy := *c
	cpy.baseURL = strings.TrimSuffix(baseURL, "/")
	return &cpy
}

// Send issues a request through the circuit breaker, returning the response for any
// HTTP status. Callers are responsible for closing the response body. A failure to
// get a response at all is returned as an error matching ErrTransport.
func (c *Client) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get(RequestIdHeader) == "" {
		requestId := RequestIdFromContext(ctx)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		req.Header.Set(RequestIdHeader, requestId)
	}
	if c.creds != nil {
		for _, cookie := range c.creds.Cookies() {
			req.AddCookie(cookie)
		}
	}

	start := time.Now()
	var res *http.Response
	_, err := c.breaker.Execute(func() (*http.Response, error) {
		r, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		res = r
		if r.StatusCode >= http.StatusInternalServerError {
			return r, errServerFailure
		}
		return r, nil
	})
	elapsed := time.Since(start)
	c.metrics.duration.WithLabelValues(req.Method).Observe(elapsed.Seconds())

	if res != nil {
		c.metrics.requests.WithLabelValues(req.Method, strconv.Itoa(res.StatusCode)).Inc()
		c.logger.DebugContext(ctx, "backend request",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"status", res.StatusCode,
			"duration", elapsed,
			"requestId", req.Header.Get(RequestIdHeader),
		)
		return res, nil
	}
	c.metrics.requests.WithLabelValues(req.Method, "error").Inc()
	c.logger.WarnContext(ctx, "backend request failed",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"error", err,
		"requestId", req.Header.Get(RequestIdHeader),
	)
	return nil, &transportError{err: err}
}

// Do issues a request to the given endpoint and normalizes the result: a 2xx
// response is returned for the caller to decode (and close), while any other status
// is consumed and returned as an *Error
func (c *Client) Do(ctx context.Context, method string, endpoint string, params Params, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint, params), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request for %s: %w", method, endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		apiErr := parseError(res)
		if errors.Is(apiErr, ErrUnauthorized) {
			c.logger.InfoContext(ctx, "backend rejected request as unauthorized", "method", method, "endpoint", endpoint)
		}
		return nil, apiErr
	}
	return res, nil
}

// Ping reports whether the backend can be reached: any HTTP response at all, even an
// error status, counts as reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	res, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// BreakerState reports the current state of the circuit breaker
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) url(endpoint string, params Params) string {
	u := c.baseURL + endpoint
	if query := params.Encode(); query != "" {
		u += "?" + query
	}
	return u
}
