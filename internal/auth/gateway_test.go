package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golden-vcr/inventory-portal/internal/identity"
	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

func Test_Gateway_Login(t *testing.T) {
	client := &mockIdentityClient{}
	g := NewGateway(client, nil)
	store := tokenstore.NewStore(tokenstore.NewMemoryJar())

	creds, err := g.Login(context.Background(), store, "alice", "x")
	require.NoError(t, err)
	assert.Equal(t, "AT", creds.AccessToken)

	record, ok := store.Read()
	assert.True(t, ok)
	assert.Equal(t, identity.User{Id: 1, Username: "alice", Roles: []string{identity.RoleAdmin}}, record.User)
	assert.Equal(t, "AT", record.AccessToken)
	assert.Equal(t, "RT", record.RefreshToken)
}

func Test_Gateway_Login_rejected(t *testing.T) {
	client := &mockIdentityClient{}
	g := NewGateway(client, nil)
	store := tokenstore.NewStore(tokenstore.NewMemoryJar())

	creds, err := g.Login(context.Background(), store, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Bad credentials", err.Error())
	assert.Nil(t, creds)
	_, ok := store.Read()
	assert.False(t, ok)
}

func Test_Gateway_Login_store_failure(t *testing.T) {
	g := NewGateway(&mockIdentityClient{}, nil)
	store := tokenstore.NewStore(&brokenMedium{})

	creds, err := g.Login(context.Background(), store, "alice", "x")
	assert.ErrorIs(t, err, tokenstore.ErrWriteFailed)
	assert.Nil(t, creds)
}

func Test_Gateway_Logout(t *testing.T) {
	tests := []struct {
		name        string
		loggedIn    bool
		revokeErr   error
		wantRevoked bool
		wantErr     error
	}{
		{
			"logged-in user is revoked and cleared",
			true,
			nil,
			true,
			nil,
		},
		{
			"failed revoke still clears local state",
			true,
			&rejectionError{kind: ErrLogoutRejected, message: "Logout failed"},
			true,
			ErrLogoutRejected,
		},
		{
			"unreachable backend still clears local state",
			true,
			ErrTransport,
			true,
			ErrTransport,
		},
		{
			"no refresh token short-circuits to success",
			false,
			nil,
			false,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockIdentityClient{revokeErr: tt.revokeErr}
			g := NewGateway(client, nil)
			store := tokenstore.NewStore(tokenstore.NewMemoryJar())
			if tt.loggedIn {
				_, err := g.Login(context.Background(), store, "alice", "x")
				require.NoError(t, err)
			}

			err := g.Logout(context.Background(), store)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantRevoked {
				assert.Equal(t, []string{"RT"}, client.revoked)
			} else {
				assert.Empty(t, client.revoked)
			}
			_, ok := store.Read()
			assert.False(t, ok)
			_, ok = store.RefreshToken()
			assert.False(t, ok)
		})
	}
}

func Test_Gateway_Logout_twice(t *testing.T) {
	client := &mockIdentityClient{revokeErr: errors.New("mock error")}
	g := NewGateway(client, nil)
	store := tokenstore.NewStore(tokenstore.NewMemoryJar())
	_, err := g.Login(context.Background(), store, "alice", "x")
	require.NoError(t, err)

	assert.Error(t, g.Logout(context.Background(), store))
	assert.NoError(t, g.Logout(context.Background(), store))
	assert.Len(t, client.revoked, 1)
	_, ok := store.Read()
	assert.False(t, ok)
}

type mockIdentityClient struct {
	revokeErr error
	revoked   []string
}

func (m *mockIdentityClient) RequestTokens(ctx context.Context, username string, password string) (*identity.Credentials, error) {
	if username == "alice" && password == "x" {
		return &identity.Credentials{
			UserId:       1,
			Username:     "alice",
			AccessToken:  "AT",
			RefreshToken: "RT",
			Roles:        []string{identity.RoleAdmin},
		}, nil
	}
	return nil, &rejectionError{kind: ErrInvalidCredentials, message: "Bad credentials"}
}

func (m *mockIdentityClient) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	m.revoked = append(m.revoked, refreshToken)
	return m.revokeErr
}

var _ IdentityClient = (*mockIdentityClient)(nil)

type brokenMedium struct{}

func (m *brokenMedium) Get(name string) (string, bool) {
	return "", false
}

func (m *brokenMedium) Set(name string, value string, ttl time.Duration) error {
	return errors.New("disk full")
}

func (m *brokenMedium) Delete(name string) error {
	return nil
}

var _ tokenstore.Medium = (*brokenMedium)(nil)
