package auth

import (
	"context"
	"log/slog"

	"github.com/golden-vcr/inventory-portal/internal/identity"
	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

// Gateway exchanges credentials with the backend and keeps a token store in step
// with the result
type Gateway struct {
	client IdentityClient
	logger *slog.Logger
}

func NewGateway(client IdentityClient, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client: client,
		logger: logger,
	}
}

// Login requests tokens for the given username and password, then persists them to
// the store. Login is not complete until the store has been written: if the write
// fails, the error is returned and no credentials are.
func (g *Gateway) Login(ctx context.Context, store *tokenstore.Store, username string, password string) (*identity.Credentials, error) {
	creds, err := g.client.RequestTokens(ctx, username, password)
	if err != nil {
		g.logger.InfoContext(ctx, "login rejected", "username", username, "error", err)
		return nil, err
	}
	if err := store.Write(creds); err != nil {
		g.logger.ErrorContext(ctx, "failed to store credentials after login", "username", username, "error", err)
		return nil, err
	}
	g.logger.InfoContext(ctx, "user logged in", "username", creds.Username, "userId", creds.UserId)
	return creds, nil
}

// Logout revokes the stored refresh token with the backend, then clears the store.
// The store is cleared whatever the outcome of the revoke request; if that request
// failed, its error is still returned.
func (g *Gateway) Logout(ctx context.Context, store *tokenstore.Store) error {
	refreshToken, ok := store.RefreshToken()
	if !ok {
		store.Clear()
		return nil
	}
	defer store.Clear()

	if err := g.client.RevokeRefreshToken(ctx, refreshToken); err != nil {
		g.logger.WarnContext(ctx, "server-side logout failed; clearing local credentials anyway", "error", err)
		return err
	}
	return nil
}
