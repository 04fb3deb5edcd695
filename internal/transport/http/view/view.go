package view

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"expensedash/internal/domain/nav"
	"expensedash/internal/domain/session"
	"expensedash/web"
)

// LayoutData configures the dashboard shell around a page: sidebar menu for
// the session's role, active entry by exact route match, header identity,
// and an optional flash notice.
type LayoutData struct {
	Title       string
	ActiveNav   string
	UserName    string
	Role        string
	Menu        []nav.Item
	Flash       string
	FlashKind   string // "success" or "error"
	PollSeconds int    // >0 adds a meta refresh to the page
}

// BuildLayout derives the shell state for one request from its session.
func BuildLayout(sess session.Session, title, activeNav string) LayoutData {
	return LayoutData{
		Title:     title,
		ActiveNav: activeNav,
		UserName:  sess.DisplayName,
		Role:      string(sess.Role),
		Menu:      nav.MenuFor(sess.Role),
	}
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"shortDate": func(value string) string {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.Format("Jan 02, 2006")
			}
		}
		return value
	},
}

// Renderer executes the embedded templates. Pages render into a buffer
// first so a template fault becomes a clean 500 instead of a torn page.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	parsed, err := template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: parsed}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template render failed", "template", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
