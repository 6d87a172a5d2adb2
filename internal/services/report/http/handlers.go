// Package http provides http transport for reports
package http

import (
	stdhttp "net/http"

	phttp "tripstats/internal/platform/net/http"
	"tripstats/internal/services/report/domain"
)

// Register mounts report endpoints on the given router
func Register(r phttp.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// busiest zones, ?n= defaults to 10
	phttp.GetQuery[domain.TopInput](r, "/zones", h.topZones)

	// one zone with its hour histogram
	phttp.GetJSON(r, "/zones/{zone}", h.zone)

	// busiest zone and hour slots
	phttp.GetQuery[domain.TopInput](r, "/slots", h.topSlots)

	phttp.GetJSON(r, "/summary", h.summary)
}

type handlers struct{ svc domain.ServicePort }

// GET /reports/zones?n=
func (h *handlers) topZones(r *stdhttp.Request, in domain.TopInput) (any, error) {
	return h.svc.TopZones(r.Context(), in)
}

// GET /reports/slots?n=
func (h *handlers) topSlots(r *stdhttp.Request, in domain.TopInput) (any, error) {
	return h.svc.TopSlots(r.Context(), in)
}

// GET /reports/zones/{zone}
func (h *handlers) zone(r *stdhttp.Request) (any, error) {
	return h.svc.Zone(r.Context(), phttp.URLParam(r, "zone"))
}

// GET /reports/summary
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.Summary(r.Context())
}
