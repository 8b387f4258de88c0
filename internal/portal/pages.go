package portal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/golden-vcr/inventory-portal/internal/auth"
	"github.com/golden-vcr/inventory-portal/internal/backend"
	"github.com/golden-vcr/inventory-portal/internal/identity"
	"github.com/golden-vcr/inventory-portal/internal/inventory"
	"github.com/golden-vcr/inventory-portal/internal/session"
)

// videosPerPage is the page size used for the admin dashboard's video listing
const videosPerPage = 10

var validate = validator.New(validator.WithRequiredStructEnabled())

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func (s *Server) handleLoginPage(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	state := m.State()

	// A caller who's already signed in is sent on to their dashboard; without a role
	// there's nowhere to send them, so they may sign in as someone else
	if state.IsAuthenticated && state.PrimaryRole != identity.PrimaryRoleNone {
		http.Redirect(res, req, state.PrimaryRole.HomePath(), http.StatusSeeOther)
		return
	}
	s.render(res, req, http.StatusOK, "login", Page{Title: "Sign in", Session: state})
}

func (s *Server) handleLoginSubmit(res http.ResponseWriter, req *http.Request) {
	form := loginForm{
		Username: req.PostFormValue("username"),
		Password: req.PostFormValue("password"),
	}
	m := s.opener.Open(res, req)
	if err := validate.Struct(form); err != nil {
		s.metrics.logins.WithLabelValues("invalid").Inc()
		s.render(res, req, http.StatusBadRequest, "login", Page{
			Title:    "Sign in",
			Session:  m.State(),
			Error:    "Username and password are required",
			Username: form.Username,
		})
		return
	}

	state, intent, err := m.Login(req.Context(), form.Username, form.Password)
	if err != nil {
		status := http.StatusInternalServerError
		result := "error"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			result = "rejected"
		} else if errors.Is(err, auth.ErrTransport) {
			status = http.StatusBadGateway
		}
		s.metrics.logins.WithLabelValues(result).Inc()
		s.logger.InfoContext(req.Context(), "login failed", "username", form.Username, "error", err)
		s.render(res, req, status, "login", Page{
			Title:    "Sign in",
			Session:  state,
			Error:    err.Error(),
			Username: form.Username,
		})
		return
	}

	s.metrics.logins.WithLabelValues("success").Inc()
	s.logger.InfoContext(req.Context(), "user logged in",
		"username", state.User.Username,
		"primaryRole", string(state.PrimaryRole),
	)
	http.Redirect(res, req, intent.Target, http.StatusSeeOther)
}

func (s *Server) handleLogout(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	_, intent, err := m.Logout(req.Context())
	if err != nil {
		s.logger.WarnContext(req.Context(), "logout could not be confirmed by the backend", "error", err)
	}
	http.Redirect(res, req, intent.Target, http.StatusSeeOther)
}

func (s *Server) handleHome(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	state := m.State()
	if !state.IsAuthenticated {
		http.Redirect(res, req, identity.LoginPath, http.StatusSeeOther)
		return
	}
	if state.PrimaryRole == identity.PrimaryRoleNone {
		s.render(res, req, http.StatusForbidden, "noaccess", Page{Title: "No access", Session: state})
		return
	}
	http.Redirect(res, req, state.PrimaryRole.HomePath(), http.StatusSeeOther)
}

func (s *Server) handleAdmin(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	inv := s.inventory.As(m.Store())
	page := Page{Title: "Admin", Session: m.State()}

	pageNumber, _ := strconv.Atoi(req.URL.Query().Get("page"))
	if pageNumber < 0 {
		pageNumber = 0
	}

	// The three listings are independent, so we fetch them concurrently
	g, ctx := errgroup.WithContext(req.Context())
	g.Go(func() error {
		r, err := inv.ListVideos(ctx, &inventory.Page{Number: pageNumber, Size: videosPerPage})
		if err != nil {
			return err
		}
		page.Videos = r.Data
		page.VideosPage = r.PageInfo
		return nil
	})
	g.Go(func() error {
		r, err := inv.ListAssignments(ctx, nil)
		if err != nil {
			return err
		}
		page.Assignments = r.Data
		return nil
	})
	g.Go(func() error {
		users, err := inv.ListUsers(ctx)
		if err != nil {
			return err
		}
		page.Users = users
		return nil
	})
	if err := g.Wait(); err != nil {
		s.handleBackendError(res, req, m, "admin", page, err)
		return
	}
	s.render(res, req, http.StatusOK, "admin", page)
}

func (s *Server) handleUser(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	page := Page{Title: "My videos", Session: m.State()}

	videos, err := s.inventory.As(m.Store()).ListUserVideos(req.Context())
	if err != nil {
		s.handleBackendError(res, req, m, "user", page, err)
		return
	}
	page.Videos = videos
	s.render(res, req, http.StatusOK, "user", page)
}

func (s *Server) handleRecordActivity(res http.ResponseWriter, req *http.Request) {
	m := s.opener.Open(res, req)
	state := m.State()
	if !state.IsAuthenticated {
		http.Redirect(res, req, identity.LoginPath, http.StatusSeeOther)
		return
	}

	videoId, err := strconv.ParseInt(mux.Vars(req)["videoId"], 10, 64)
	if err != nil || videoId <= 0 {
		http.Error(res, "invalid video ID", http.StatusBadRequest)
		return
	}
	action := inventory.Action(req.PostFormValue("action"))
	if action != inventory.ActionViewed && action != inventory.ActionCompleted {
		http.Error(res, "action must be VIEWED or COMPLETED", http.StatusBadRequest)
		return
	}

	_, err = s.inventory.As(m.Store()).RecordActivity(req.Context(), inventory.ActivityRecord{
		VideoId: videoId,
		UserId:  state.User.Id,
		Action:  action,
	})
	if err != nil {
		s.handleBackendError(res, req, m, "user", Page{Title: "My videos", Session: state}, err)
		return
	}
	http.Redirect(res, req, identity.UserPath, http.StatusSeeOther)
}

// handleBackendError reports a failed backend call. A 401 means the backend no
// longer honors the caller's tokens, so the session is ended and the caller is sent
// back to the login page; anything else is shown on the page that was requested.
func (s *Server) handleBackendError(res http.ResponseWriter, req *http.Request, m *session.Manager, name string, page Page, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		s.logger.InfoContext(req.Context(), "backend rejected session; logging out", "path", req.URL.Path)
		m.Store().Clear()
		http.Redirect(res, req, identity.LoginPath, http.StatusSeeOther)
		return
	}

	s.logger.ErrorContext(req.Context(), "backend request failed", "path", req.URL.Path, "error", err)
	page.Error = err.Error()
	if errors.Is(err, backend.ErrTransport) {
		page.Error = "The inventory service is currently unavailable. Please try again shortly."
	}
	status := http.StatusBadGateway
	var backendErr *backend.Error
	if errors.As(err, &backendErr) && backendErr.Status < 500 {
		status = backendErr.Status
	}
	s.render(res, req, status, name, page)
}
