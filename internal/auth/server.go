package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/golden-vcr/inventory-portal/internal/session"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Server struct {
	opener *session.Opener
}

func NewServer(opener *session.Opener) *Server {
	return &Server{
		opener: opener,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	// Session endpoints: allow a script running in the browser to log in and out,
	// with the resulting credentials stored as cookies
	r.Path("/login").Methods("POST").HandlerFunc(s.handleLogin)
	r.Path("/logout").Methods("POST").HandlerFunc(s.handleLogout)

	// Allows the browser to find out who it's logged in as, without a round-trip to
	// the backend
	r.Path("/session").Methods("GET").HandlerFunc(s.handleGetSession)
}

func (s *Server) handleLogin(res http.ResponseWriter, req *http.Request) {
	var body LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(res, "request body must be a JSON object with 'username' and 'password'", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(body); err != nil {
		http.Error(res, "'username' and 'password' are required", http.StatusBadRequest)
		return
	}

	m := s.opener.Open(res, req)
	state, intent, err := m.Login(req.Context(), body.Username, body.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		} else if errors.Is(err, ErrTransport) {
			status = http.StatusBadGateway
		}
		respond(res, status, SessionResponse{State: state, Error: err.Error()})
		return
	}
	respond(res, http.StatusOK, SessionResponse{State: state, Redirect: intent.Target})
}

func (s *Server) handleLogout(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	state, intent, err := m.Logout(req.Context())

	// Logout always succeeds locally, so the status is always 200; a failure to
	// revoke the refresh token is reported alongside
	result := SessionResponse{State: state, Redirect: intent.Target}
	if err != nil {
		result.Error = err.Error()
	}
	respond(res, http.StatusOK, result)
}

func (s *Server) handleGetSession(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	respond(res, http.StatusOK, SessionResponse{State: m.State()})
}

func respond(res http.ResponseWriter, status int, body SessionResponse) {
	res.Header().Set("content-type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(body); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}
