package approvalhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/backend"
	"expensedash/internal/domain/approvals"
	"expensedash/internal/domain/session"
	"expensedash/internal/transport/http/middleware"
	"expensedash/internal/transport/http/view"
)

type Handler struct {
	Sessions     *session.Manager
	View         *view.Renderer
	Backend      *backend.Client
	Poller       *approvals.Poller
	PollSeconds  int
	MaxBodyBytes int64
}

func NewHandler(sessions *session.Manager, renderer *view.Renderer, client *backend.Client, poller *approvals.Poller, pollSeconds int, maxBodyBytes int64) *Handler {
	return &Handler{
		Sessions:     sessions,
		View:         renderer,
		Backend:      client,
		Poller:       poller,
		PollSeconds:  pollSeconds,
		MaxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/pending-approvals", h.handleList)
	r.With(middleware.BodyLimit(h.MaxBodyBytes)).Post("/pending-approvals/{expenseID}", h.handleReview)
	r.Get("/approval-rules", h.handleRules)
}

type listData struct {
	Layout   view.LayoutData
	Expenses []backend.PendingExpense
	Error    string
}

// handleList renders the current pending set. Every page view forces a fresh
// fetch through the poller so an approve or reject is reflected immediately;
// the meta refresh keeps the list current between interactions.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sess := h.Sessions.Current(r)

	snap := h.Poller.Refresh(r.Context())
	data := listData{
		Layout:   view.BuildLayout(sess, "Pending Approvals", "/pending-approvals"),
		Expenses: snap.Expenses,
	}
	if snap.Err != nil {
		slog.Warn("pending approvals fetch failed", "err", snap.Err)
		data.Error = snap.Err.Error()
	} else {
		data.Layout.PollSeconds = h.PollSeconds
	}
	data.Layout.Flash, data.Layout.FlashKind = view.FlashFromRequest(r)
	h.View.Render(w, http.StatusOK, "pending_approvals", data)
}

// handleReview sends exactly one review call to the backend and then
// redirects back to the list, which refetches. Success or failure is
// reported through a flash notice; the list itself is never mutated locally.
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	action := r.FormValue("action")
	if action != backend.ActionApprove && action != backend.ActionReject {
		http.Redirect(w, r, view.FlashURL("/pending-approvals", "Unknown review action", "error"), http.StatusSeeOther)
		return
	}

	sess := h.Sessions.Current(r)
	if err := h.Backend.ReviewExpense(r.Context(), expenseID, action, sess.DisplayName); err != nil {
		slog.Warn("expense review failed", "expenseId", expenseID, "action", action, "err", err)
		msg := "Failed to " + action + " expense: " + err.Error()
		http.Redirect(w, r, view.FlashURL("/pending-approvals", msg, "error"), http.StatusSeeOther)
		return
	}

	msg := "Expense approved successfully"
	if action == backend.ActionReject {
		msg = "Expense rejected"
	}
	http.Redirect(w, r, view.FlashURL("/pending-approvals", msg, "success"), http.StatusSeeOther)
}

type rulesData struct {
	Layout          view.LayoutData
	Subtitle        string
	CardTitle       string
	CardDescription string
	Body            string
}

func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sess := h.Sessions.Current(r)
	h.View.Render(w, http.StatusOK, "placeholder", rulesData{
		Layout:          view.BuildLayout(sess, "Approval Rules", "/approval-rules"),
		Subtitle:        "Configure automatic approval policies",
		CardTitle:       "Approval Policies",
		CardDescription: "Rules for routing and auto-approving expenses",
		Body:            "Policy configuration is not wired up yet. All expenses currently require manual review.",
	})
}
