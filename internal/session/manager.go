package session

import (
	"context"
	"sync"

	"github.com/golden-vcr/inventory-portal/internal/identity"
	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

// Gateway performs login and logout against the backend, keeping the given store in
// step with the result
type Gateway interface {
	Login(ctx context.Context, store *tokenstore.Store, username string, password string) (*identity.Credentials, error)
	Logout(ctx context.Context, store *tokenstore.Store) error
}

// State describes who the current caller is. IsAuthenticated is true if and only if
// User is non-nil, and a caller with no User has no PrimaryRole.
type State struct {
	IsAuthenticated bool                 `json:"isAuthenticated"`
	User            *identity.User       `json:"user"`
	PrimaryRole     identity.PrimaryRole `json:"primaryRole"`
	IsLoading       bool                 `json:"isLoading"`
}

// Intent is a navigation the caller should perform as a result of a transition. A
// zero Intent means "stay where you are".
type Intent struct {
	Target string
}

func (i Intent) IsZero() bool {
	return i.Target == ""
}

// Manager is the state machine that tracks the current caller's session. It's
// hydrated from a token store by Init, and only changes thereafter via Login and
// Logout. Transitions return the resulting state along with a navigation intent;
// performing the navigation is left to the caller.
type Manager struct {
	store   *tokenstore.Store
	gateway Gateway

	mu    sync.Mutex
	state State
}

// NewManager returns a Manager in the initial loading state
func NewManager(store *tokenstore.Store, gateway Gateway) *Manager {
	return &Manager{
		store:   store,
		gateway: gateway,
		state:   State{IsLoading: true},
	}
}

// Init reads the token store and settles into either the authenticated or the
// unauthenticated state
func (m *Manager) Init() State {
	record, ok := m.store.Read()
	if !ok {
		return m.set(State{})
	}
	return m.set(authenticatedState(record.User))
}

// State returns a snapshot of the current state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Store returns the token store the Manager reads from, so that requests made on
// the caller's behalf can carry the same credentials
func (m *Manager) Store() *tokenstore.Store {
	return m.store
}

// Login exchanges the given username and password for credentials. On success the
// session becomes authenticated and the caller is directed to the home area of
// their primary role. On failure no navigation is requested, and the session is
// unauthenticated unless the store still holds the credentials it had before.
func (m *Manager) Login(ctx context.Context, username string, password string) (State, Intent, error) {
	prev := m.markLoading()

	creds, err := m.gateway.Login(ctx, m.store, username, password)
	if err != nil {
		if _, ok := m.store.Read(); !ok {
			return m.set(State{}), Intent{}, err
		}
		prev.IsLoading = false
		return m.set(prev), Intent{}, err
	}

	state := m.set(authenticatedState(creds.User()))
	return state, Intent{Target: state.PrimaryRole.HomePath()}, nil
}

// Logout ends the session. Local credentials are cleared and the caller is sent to
// the login page even if the backend could not be told about the logout; in that
// case the error is returned alongside the reset state.
func (m *Manager) Logout(ctx context.Context) (State, Intent, error) {
	m.markLoading()

	err := m.gateway.Logout(ctx, m.store)
	m.store.Clear()

	state := m.set(State{})
	return state, Intent{Target: identity.LoginPath}, err
}

func (m *Manager) markLoading() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state.IsLoading = true
	return prev
}

func (m *Manager) set(state State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return state
}

func authenticatedState(user identity.User) State {
	return State{
		IsAuthenticated: true,
		User:            &user,
		PrimaryRole:     user.PrimaryRole(),
	}
}
