package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golden-vcr/inventory-portal/internal/backend"
	"github.com/golden-vcr/inventory-portal/internal/identity"
)

// IdentityClient performs the credential exchanges with the backend's identity
// endpoints, without touching any local state
type IdentityClient interface {
	RequestTokens(ctx context.Context, username string, password string) (*identity.Credentials, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

// NewIdentityClient returns an IdentityClient that sends requests through the given
// backend client, which should be rooted at the identity endpoints (e.g.
// http://localhost:8080/api/v1/auth) and carry no credentials of its own
func NewIdentityClient(c *backend.Client) IdentityClient {
	return &identityClient{c: c}
}

type identityClient struct {
	c *backend.Client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (i *identityClient) RequestTokens(ctx context.Context, username string, password string) (*identity.Credentials, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.c.BaseURL()+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := i.c.Send(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &rejectionError{
			kind:    ErrInvalidCredentials,
			message: backend.ReadErrorMessage(res.Body, defaultLoginFailureMessage),
		}
	}

	var envelope backend.Response[identity.Credentials]
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if !envelope.Success || envelope.Data.AccessToken == "" {
		message := envelope.Message
		if message == "" {
			message = defaultLoginFailureMessage
		}
		return nil, &rejectionError{kind: ErrInvalidCredentials, message: message}
	}
	return &envelope.Data, nil
}

func (i *identityClient) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.c.BaseURL()+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}
	req.Header.Set("Authorization", formatAuthorizationHeader(refreshToken))
	req.Header.Set("Content-Type", "application/json")

	res, err := i.c.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &rejectionError{
			kind:    ErrLogoutRejected,
			message: backend.ReadErrorMessage(res.Body, defaultLogoutFailureMessage),
		}
	}
	return nil
}

var _ IdentityClient = (*identityClient)(nil)
