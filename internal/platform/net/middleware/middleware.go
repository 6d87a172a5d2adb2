// Package middleware is the handler chain in front of the report API
package middleware

import (
	"net/http"
	"time"

	"tripstats/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures Stack
type Options struct {
	Timeout time.Duration  // per request deadline, 0 leaves requests unbounded
	Slow    time.Duration  // access lines at or above this are warn
	Origins []string       // CORS origins allowed to read reports
	Log     *logger.Logger // access and panic logger, nil uses the root logger
}

// Stack returns the report API chain, outermost first. GET /healthz is
// answered before routing and reports are readable cross-origin.
func Stack(o Options) []func(http.Handler) http.Handler {
	log := o.Log
	if log == nil {
		log = logger.Get()
	}
	mws := []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		AccessLog(log, o.Slow),
		Recover(log),
		chimw.Heartbeat("/healthz"),
		cors.Handler(cors.Options{
			AllowedOrigins: o.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
	}
	if o.Timeout > 0 {
		mws = append(mws, chimw.Timeout(o.Timeout))
	}
	return mws
}
