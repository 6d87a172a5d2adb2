// Package module wires reports into the API using modkit
package module

import (
	"tripstats/internal/modkit"
	perr "tripstats/internal/platform/errors"
	phttp "tripstats/internal/platform/net/http"
	"tripstats/internal/services/report/domain"
	reporthttp "tripstats/internal/services/report/http"
	"tripstats/internal/services/report/service"
)

// Ports exposed by the report module
type Ports struct {
	Reports domain.ServicePort
}

// Module implements the report module
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	svc   *service.Svc
	ports Ports
}

// New constructs the report module
// the finished store arrives as domain.Inputs through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("reports"), modkit.WithPrefix("/reports")}, opts...)...)

	in, ok := b.Ports.(domain.Inputs)
	if !ok || in.Store == nil {
		return nil, perr.Internalf("reports module requires domain.Inputs with a store")
	}

	o := FromConfig(deps.Cfg)
	svc := service.New(in.Store, service.Config{MaxN: o.MaxN, Run: in.Run})
	return &Module{deps: deps, b: b, svc: svc, ports: Ports{Reports: svc}}, nil
}

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.MountUnder(r, m.b, func(rr phttp.Router) {
		reporthttp.Register(rr, m.svc)
	})
}

// Service returns the report port
func (m *Module) Service() domain.ServicePort { return m.svc }

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.b.Prefix }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
