package middleware

import (
	"net/http"
	"runtime/debug"

	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/logger"
	phttp "tripstats/internal/platform/net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover answers a panicking handler with a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-raised so the server drops the connection.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				switch v {
				case nil:
					return
				case http.ErrAbortHandler:
					panic(v)
				}
				log.Error().
					Str("request_id", chimw.GetReqID(r.Context())).
					Str("path", r.URL.Path).
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("report handler panicked")
				phttp.RespondError(w, r, perr.PanicErrf("internal error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
