// Package module mounts the meta routes under /meta
package module

import (
	"time"

	"tripstats/internal/modkit"
	phttp "tripstats/internal/platform/net/http"
	metahttp "tripstats/internal/services/api/meta/http"
)

type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New pings deps.Store's export backends on /meta/ready; uptime counts from New
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	return &Module{b: b, deps: metahttp.Deps{StartedAt: time.Now(), Checks: deps.Store.Checks}}
}

func (m *Module) Name() string { return m.b.Name }

func (m *Module) MountRoutes(r phttp.Router) {
	modkit.MountUnder(r, m.b, func(rr phttp.Router) { metahttp.Register(rr, m.deps) })
}

// Ports is nil, meta serves no other module
func (m *Module) Ports() any { return nil }
