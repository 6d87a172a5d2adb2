package middleware

import (
	"net/http"
	"time"

	"tripstats/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog writes one line per request with the matched route pattern, so
// /reports/zones/Z1 and /reports/zones/Z2 group under /reports/zones/{zone}.
// The request id is put on the context for logger.C further down.
func AccessLog(base *logger.Logger, slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chimw.GetReqID(r.Context())
			r = r.WithContext(logger.WithRequest(r.Context(), id))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt := base.Info()
			if slow > 0 && took >= slow {
				evt = base.Warn()
			}
			if id != "" {
				evt = evt.Str("request_id", id)
			}
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				evt = evt.Str("route", rc.RoutePattern())
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Msg("report api request")
		})
	}
}
