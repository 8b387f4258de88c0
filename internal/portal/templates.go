package portal

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/golden-vcr/inventory-portal/internal/backend"
	"github.com/golden-vcr/inventory-portal/internal/inventory"
	"github.com/golden-vcr/inventory-portal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Each page is parsed alongside the shared layout, so that every page can define its
// own "content" block
var pages = map[string]*template.Template{
	"login":    parsePage("login.html"),
	"admin":    parsePage("admin.html"),
	"user":     parsePage("user.html"),
	"noaccess": parsePage("noaccess.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// Page is the data passed to every page template
type Page struct {
	Title   string
	Session session.State
	Error   string

	// Username repopulates the login form after a failed attempt
	Username string

	Videos      []inventory.Video
	VideosPage  *backend.PageInfo
	Assignments []inventory.Assignment
	Users       []inventory.User
}

// render executes the named page into a buffer before writing anything, so that a
// template failure can still be reported with a 500
func (s *Server) render(res http.ResponseWriter, req *http.Request, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		s.logger.ErrorContext(req.Context(), "failed to render page", "page", name, "error", err)
		http.Error(res, "failed to render page", http.StatusInternalServerError)
		return
	}
	res.Header().Set("content-type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	res.Write(buf.Bytes())
}
