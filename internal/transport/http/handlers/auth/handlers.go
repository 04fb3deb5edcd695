package authhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/domain/session"
	"expensedash/internal/transport/http/view"
)

type Handler struct {
	Sessions *session.Manager
	View     *view.Renderer
}

func NewHandler(sessions *session.Manager, renderer *view.Renderer) *Handler {
	return &Handler{Sessions: sessions, View: renderer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleLanding)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type landingData struct {
	Layout view.LayoutData
}

func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	data := landingData{Layout: view.LayoutData{Title: "Welcome"}}
	data.Layout.Flash, data.Layout.FlashKind = view.FlashFromRequest(r)
	h.View.Render(w, http.StatusOK, "landing", data)
}

type loginData struct {
	Layout view.LayoutData
	Name   string
	Role   string
	Roles  []string
	Error  string
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.View.Render(w, http.StatusOK, "login", loginData{
		Layout: view.LayoutData{Title: "Login"},
		Role:   string(session.RoleEmployee),
		Roles:  session.RoleNames(),
	})
}

// handleLogin stores the entered identity in the session cookie and routes
// the user to their role's primary page. There is no credential check: this
// login is local and insecure by design, and says so on the page.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.View.Render(w, http.StatusBadRequest, "login", loginData{
			Layout: view.LayoutData{Title: "Login"},
			Role:   string(session.RoleEmployee),
			Roles:  session.RoleNames(),
			Error:  "Invalid form submission",
		})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	role := session.ParseRole(r.FormValue("role"))
	if name == "" {
		h.View.Render(w, http.StatusOK, "login", loginData{
			Layout: view.LayoutData{Title: "Login"},
			Role:   string(role),
			Roles:  session.RoleNames(),
			Error:  "Please enter your name",
		})
		return
	}

	if err := h.Sessions.Issue(w, name, role); err != nil {
		h.View.Render(w, http.StatusInternalServerError, "login", loginData{
			Layout: view.LayoutData{Title: "Login"},
			Name:   name,
			Role:   string(role),
			Roles:  session.RoleNames(),
			Error:  "Server error. Please try again.",
		})
		return
	}

	http.Redirect(w, r, homeFor(role), http.StatusSeeOther)
}

// handleLogout clears the session and lands on the public page. The backend
// is not notified; logout is local state clearing only.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func homeFor(role session.Role) string {
	switch role {
	case session.RoleManager:
		return "/pending-approvals"
	case session.RoleAdmin:
		return "/manage-users"
	default:
		return "/submit-expense"
	}
}
