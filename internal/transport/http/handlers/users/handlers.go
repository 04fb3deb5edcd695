package userhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/backend"
	"expensedash/internal/domain/session"
	"expensedash/internal/transport/http/middleware"
	"expensedash/internal/transport/http/view"
)

type Handler struct {
	Sessions     *session.Manager
	View         *view.Renderer
	Backend      *backend.Client
	MaxBodyBytes int64
}

func NewHandler(sessions *session.Manager, renderer *view.Renderer, client *backend.Client, maxBodyBytes int64) *Handler {
	return &Handler{
		Sessions:     sessions,
		View:         renderer,
		Backend:      client,
		MaxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/manage-users", h.handleList)
	r.With(middleware.BodyLimit(h.MaxBodyBytes)).Post("/manage-users/{userID}/role", h.handleRoleChange)
}

// requireAdmin redirects non-admin sessions away before any user data is
// fetched or rendered. The guard is evaluated on every request; a stale
// admin page held by a demoted user stops working at the next interaction.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return session.Session{}, false
	}
	sess := h.Sessions.Current(r)
	if sess.Role != session.RoleAdmin {
		http.Redirect(w, r, view.FlashURL("/", "Access denied", "error"), http.StatusSeeOther)
		return session.Session{}, false
	}
	return sess, true
}

type listData struct {
	Layout view.LayoutData
	Users  []backend.User
	Roles  []string
	Error  string
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	data := listData{
		Layout: view.BuildLayout(sess, "Manage Users", "/manage-users"),
		Roles:  session.RoleNames(),
	}
	users, err := h.Backend.ListUsers(r.Context())
	if err != nil {
		slog.Warn("user list fetch failed", "err", err)
		data.Error = err.Error()
	} else {
		data.Users = users
	}
	data.Layout.Flash, data.Layout.FlashKind = view.FlashFromRequest(r)
	h.View.Render(w, http.StatusOK, "manage_users", data)
}

// handleRoleChange issues exactly one role update and redirects back to the
// list, which refetches. The table is never patched locally from the
// update's response.
func (h *Handler) handleRoleChange(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	role := r.FormValue("role")
	if session.ParseRole(role) == session.RoleEmployee && role != string(session.RoleEmployee) {
		http.Redirect(w, r, view.FlashURL("/manage-users", "Unknown role", "error"), http.StatusSeeOther)
		return
	}

	updated, err := h.Backend.UpdateUserRole(r.Context(), userID, role, sess.DisplayName)
	if err != nil {
		slog.Warn("role update failed", "userId", userID, "role", role, "err", err)
		msg := "Failed to update role: " + err.Error()
		http.Redirect(w, r, view.FlashURL("/manage-users", msg, "error"), http.StatusSeeOther)
		return
	}

	msg := "Updated " + updated.Name + " to " + updated.Role
	http.Redirect(w, r, view.FlashURL("/manage-users", msg, "success"), http.StatusSeeOther)
}
