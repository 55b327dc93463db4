// Package ops serves the operator endpoints: health checks and Prometheus metrics.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"luckystat/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Check probes one dependency; a nil error means healthy
type Check func(ctx context.Context) error

// checkTimeout bounds every health probe
const checkTimeout = 2 * time.Second

// App is the ops router
type App struct {
	router  *chi.Mux
	checks  map[string]Check
	nextRun func() time.Time
}

// Option configures an App
type Option func(*App)

// WithCheck adds a named dependency probe to /healthz
func WithCheck(name string, check Check) Option {
	return func(a *App) { a.checks[name] = check }
}

// WithSchedule reports the next scheduled publish on /healthz
func WithSchedule(nextRun func() time.Time) Option {
	return func(a *App) { a.nextRun = nextRun }
}

// NewApp creates the router with its middleware and routes
func NewApp(opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		checks: make(map[string]Check),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Get("/healthz", a.handleHealth)
	a.router.Handle("/metrics", metrics.Handler())
	return a
}

// Handler exposes the router for http.Server
func (a *App) Handler() http.Handler {
	return a.router
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	NextRun *time.Time        `json:"next_run,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(a.checks))}

	names := make([]string, 0, len(a.checks))
	for name := range a.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := a.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}
	if a.nextRun != nil {
		if next := a.nextRun(); !next.IsZero() {
			resp.NextRun = &next
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
