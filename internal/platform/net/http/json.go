package http

import (
	"net/http"

	"tripstats/internal/platform/net/http/bind"
)

// QueryHandler binds and validates the query string into T before calling fn
func QueryHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := bind.Query[T](r)
		if err != nil {
			RespondError(w, r, err)
			return
		}
		out, err := fn(r, in)
		reply(w, r, out, err)
	}
}

// JSONHandlerNoBody wraps the result of fn in the envelope
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r)
		reply(w, r, out, err)
	}
}

// GetQuery mounts a query bound handler for GET
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, QueryHandler(h))
}

// GetJSON mounts a handler without input for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}
