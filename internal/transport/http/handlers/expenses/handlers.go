package expensehandler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/backend"
	"expensedash/internal/domain/expense"
	"expensedash/internal/domain/session"
	"expensedash/internal/transport/http/middleware"
	"expensedash/internal/transport/http/view"
)

type Handler struct {
	Sessions       *session.Manager
	View           *view.Renderer
	Backend        *backend.Client
	MaxUploadBytes int64
}

func NewHandler(sessions *session.Manager, renderer *view.Renderer, client *backend.Client, maxUploadBytes int64) *Handler {
	return &Handler{
		Sessions:       sessions,
		View:           renderer,
		Backend:        client,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/submit-expense", h.handleForm)
	r.With(middleware.BodyLimit(h.MaxUploadBytes)).Post("/submit-expense", h.handleSubmit)
	r.Get("/my-expenses", h.handleMyExpenses)
	r.Get("/team-expenses", h.handleTeamExpenses)
	r.Get("/all-expenses", h.handleAllExpenses)
}

type formData struct {
	Layout     view.LayoutData
	Form       expense.Form
	Currencies []string
	Error      string
}

func (h *Handler) pageData(r *http.Request, form expense.Form, errMsg string) formData {
	sess := h.Sessions.Current(r)
	data := formData{
		Layout:     view.BuildLayout(sess, "Submit Expense", "/submit-expense"),
		Form:       form,
		Currencies: expense.Currencies,
		Error:      errMsg,
	}
	data.Layout.Flash, data.Layout.FlashKind = view.FlashFromRequest(r)
	return data
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	form := expense.Form{Currency: expense.Currencies[0]}
	h.View.Render(w, http.StatusOK, "submit_expense", h.pageData(r, form, ""))
}

// handleSubmit validates the form, ships exactly one multipart request to the
// backend on success, and re-renders with the first validation issue
// otherwise. Entered values survive a failed validation.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			form := expense.Form{Currency: expense.Currencies[0]}
			h.View.Render(w, http.StatusRequestEntityTooLarge, "submit_expense",
				h.pageData(r, form, "File size must be less than 5MB"))
			return
		}
		form := expense.Form{Currency: expense.Currencies[0]}
		h.View.Render(w, http.StatusBadRequest, "submit_expense",
			h.pageData(r, form, "Invalid form submission"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	form := expense.Form{
		Amount:      r.FormValue("amount"),
		Currency:    r.FormValue("currency"),
		Description: r.FormValue("description"),
		Date:        r.FormValue("date"),
	}

	file, header, err := r.FormFile("receipt")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		h.View.Render(w, http.StatusBadRequest, "submit_expense",
			h.pageData(r, form, "Could not read the uploaded receipt"))
		return
	}
	if err == nil {
		defer file.Close()
		form.Receipt = expense.Receipt{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
		if form.Receipt.ContentType == "" {
			form.Receipt.ContentType = sniffContentType(file)
		}
	}

	sub, issues := form.Validate(time.Now())
	if len(issues) > 0 {
		h.View.Render(w, http.StatusOK, "submit_expense",
			h.pageData(r, form, issues[0].Reason))
		return
	}

	sess := h.Sessions.Current(r)
	result, err := h.Backend.SubmitExpense(r.Context(), sub, file, sess.DisplayName)
	if err != nil {
		slog.Warn("expense submission failed", "err", err)
		h.View.Render(w, http.StatusOK, "submit_expense",
			h.pageData(r, form, "Failed to submit expense: "+err.Error()))
		return
	}

	msg := fmt.Sprintf("Expense submitted successfully! Expense ID: %s", result.ID.String())
	http.Redirect(w, r, view.FlashURL("/submit-expense", msg, "success"), http.StatusSeeOther)
}

func (h *Handler) handleMyExpenses(w http.ResponseWriter, r *http.Request) {
	h.placeholder(w, r, "My Expenses", "/my-expenses",
		"View your submitted expense reports",
		"Expense History",
		"Your past submissions will appear here",
		"Listing past expenses is not wired up yet. Submitted expenses are stored by the backend.")
}

func (h *Handler) handleTeamExpenses(w http.ResponseWriter, r *http.Request) {
	h.placeholder(w, r, "Team Expenses", "/team-expenses",
		"Review your team's expense activity",
		"Team Overview",
		"Your team's expenses will appear here",
		"Team reporting is not wired up yet.")
}

func (h *Handler) handleAllExpenses(w http.ResponseWriter, r *http.Request) {
	h.placeholder(w, r, "All Expenses", "/all-expenses",
		"Browse every expense in the system",
		"Company-wide Expenses",
		"All expenses will appear here",
		"Company-wide reporting is not wired up yet.")
}

type placeholderData struct {
	Layout          view.LayoutData
	Subtitle        string
	CardTitle       string
	CardDescription string
	Body            string
}

func (h *Handler) placeholder(w http.ResponseWriter, r *http.Request, title, path, subtitle, cardTitle, cardDesc, body string) {
	if !h.Sessions.Authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sess := h.Sessions.Current(r)
	h.View.Render(w, http.StatusOK, "placeholder", placeholderData{
		Layout:          view.BuildLayout(sess, title, path),
		Subtitle:        subtitle,
		CardTitle:       cardTitle,
		CardDescription: cardDesc,
		Body:            body,
	})
}

// sniffContentType detects the MIME type from the file's leading bytes when
// the browser omitted one, and rewinds the reader for the upload that
// follows.
func sniffContentType(file io.ReadSeeker) string {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	return http.DetectContentType(buf[:n])
}
