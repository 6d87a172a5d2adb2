// Package http serves /meta: liveness with uptime, export backend readiness
// and the build version
package http

import (
	"context"
	"net/http"
	"time"

	"tripstats/internal/core/version"
	phttp "tripstats/internal/platform/net/http"
	"tripstats/internal/platform/store"
)

const readyTimeout = 2 * time.Second

// Deps for the meta routes; a nil Checks means no export backend is configured
type Deps struct {
	StartedAt time.Time
	Checks    func(context.Context) []store.Check
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

func Register(r phttp.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}
	phttp.GetJSON(r, "/health", h.health)
	phttp.GetJSON(r, "/ready", h.ready)
	phttp.GetJSON(r, "/version", func(*http.Request) (any, error) { return version.Get(), nil })
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime_s"`
}

// ReadyCheck is one export backend: ok, fail or skipped when not configured
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse fails only when a configured backend fails its ping
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
}

func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: version.Get().Service,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	out := ReadyResponse{Status: "ok", Checks: []ReadyCheck{}}
	if h.deps.Checks == nil {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	for _, c := range h.deps.Checks(ctx) {
		rc := ReadyCheck{Name: c.Backend, Status: "skipped"}
		if c.Enabled {
			rc.Status = "ok"
		}
		if c.Enabled && c.Err != nil {
			rc.Status, rc.Error = "fail", c.Err.Error()
			out.Status = "fail"
		}
		out.Checks = append(out.Checks, rc)
	}
	return out, nil
}
