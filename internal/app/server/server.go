package server

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/backend"
	"expensedash/internal/domain/approvals"
	"expensedash/internal/domain/session"
	"expensedash/internal/platform/config"
	approvalhandler "expensedash/internal/transport/http/handlers/approvals"
	authhandler "expensedash/internal/transport/http/handlers/auth"
	expensehandler "expensedash/internal/transport/http/handlers/expenses"
	userhandler "expensedash/internal/transport/http/handlers/users"
	"expensedash/internal/transport/http/middleware"
	"expensedash/internal/transport/http/view"
	"expensedash/web"
)

// App wires the dashboard together: the rendered pages, the backend client
// they proxy, the session cookie layer, and the background approvals poller.
type App struct {
	Router http.Handler

	cfg    config.Config
	poller *approvals.Poller
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	isProd := cfg.Environment == "production"
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, isProd)
	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)

	poller := approvals.NewPoller(client.ListPendingApprovals, cfg.PollInterval)
	pollCtx, cancel := context.WithCancel(ctx)
	poller.Start(pollCtx)

	app := &App{cfg: cfg, poller: poller, cancel: cancel}
	app.Router = app.routes(renderer, sessions, client, poller, isProd)
	return app, nil
}

func (a *App) routes(renderer *view.Renderer, sessions *session.Manager, client *backend.Client, poller *approvals.Poller, isProd bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(isProd))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	static, err := fs.Sub(web.Static, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	pollSeconds := int(a.cfg.PollInterval.Seconds())

	authhandler.NewHandler(sessions, renderer).RegisterRoutes(r)
	expensehandler.NewHandler(sessions, renderer, client, a.cfg.MaxUploadBytes).RegisterRoutes(r)
	approvalhandler.NewHandler(sessions, renderer, client, poller, pollSeconds, a.cfg.MaxBodyBytes).RegisterRoutes(r)
	userhandler.NewHandler(sessions, renderer, client, a.cfg.MaxBodyBytes).RegisterRoutes(r)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		sess := sessions.Current(req)
		renderer.Render(w, http.StatusNotFound, "not_found", struct {
			Layout view.LayoutData
		}{Layout: view.BuildLayout(sess, "Page Not Found", "")})
	})

	return r
}

// Close stops the approvals poller and waits for it to exit.
func (a *App) Close() {
	a.cancel()
	a.poller.Wait()
}
