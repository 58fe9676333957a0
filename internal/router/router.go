// Package router sets up all HTTP routes and middleware chains for the
// shelfkeeper inventory. Pages live under /inventory; health, metrics and
// static assets sit beside them without CSRF or flash handling.
package router

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"shelfkeeper/internal/handlers"
	"shelfkeeper/internal/metrics"
	"shelfkeeper/internal/middleware"
	"shelfkeeper/internal/session"
	"shelfkeeper/internal/telemetry"
	"shelfkeeper/web"
)

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

// Options carries the infrastructure the route tree needs.
type Options struct {
	Dev                bool
	SecureCookies      bool
	ServiceName        string
	RateLimitPerMinute int
	Metrics            *metrics.Metrics
	Flasher            *session.Flasher
	// Checks are run by /health, keyed by service name.
	Checks map[string]Check
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, inv *handlers.Inventory) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(telemetry.SentryMiddleware())
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(telemetry.TraceMiddleware(opts.ServiceName))
	r.Use(middleware.Logger(opts.Metrics))
	r.Use(middleware.SecureHeaders(opts.Dev))

	r.Get("/health", newHealthHandler(opts.Checks))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Handle("/static/*", staticHandler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/inventory", http.StatusSeeOther)
	})

	// Inventory pages: CSRF on every request, flashes on reads and a
	// per-IP budget on form submissions.
	limit := opts.RateLimitPerMinute
	if limit <= 0 {
		limit = 60
	}
	writes := httprate.LimitByIP(limit, time.Minute)

	r.Route("/inventory", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.LoadFlashes(opts.Flasher))

		r.Get("/", inv.Index)

		r.Route("/category", func(r chi.Router) {
			r.Get("/", inv.CategoryList)
			r.Get("/create", inv.CategoryNew)
			r.With(writes).Post("/create", inv.CategoryCreate)
			r.Get("/{id}", inv.CategoryDetail)
			r.Get("/{id}/update", inv.CategoryEdit)
			r.With(writes).Post("/{id}/update", inv.CategoryUpdate)
			r.Get("/{id}/delete", inv.CategoryDeleteConfirm)
			r.With(writes).Post("/{id}/delete", inv.CategoryDelete)
		})

		r.Route("/item", func(r chi.Router) {
			r.Get("/", inv.ItemList)
			r.Get("/create", inv.ItemNew)
			r.With(writes).Post("/create", inv.ItemCreate)
			r.Get("/{id}", inv.ItemDetail)
			r.Get("/{id}/update", inv.ItemEdit)
			r.With(writes).Post("/{id}/update", inv.ItemUpdate)
			r.Get("/{id}/delete", inv.ItemDeleteConfirm)
			r.With(writes).Post("/{id}/delete", inv.ItemDelete)
		})
	})

	return r
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthResponse is the /health body.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// newHealthHandler returns a JSON health check. Any failing check turns the
// response into 503 with status "degraded".
func newHealthHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		code := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.WarnContext(r.Context(), "health check failed", "service", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
