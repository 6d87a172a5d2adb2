package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the handler shape routes are registered with
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount the read only report API against
type Router interface {
	Get(path string, h Handler)
	Route(prefix string, fn func(Router))
	Use(mw ...func(http.Handler) http.Handler)
}

// AdaptChi exposes a chi router (usually *chi.Mux) as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

type chiRouter struct{ chi.Router }

func (c chiRouter) Get(path string, h Handler) { c.Router.Get(path, h) }

func (c chiRouter) Route(prefix string, fn func(Router)) {
	c.Router.Route(prefix, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.Router.Use(mw...) }

// URLParam returns a path parameter such as {zone}
func URLParam(r *http.Request, key string) string { return chi.URLParam(r, key) }
