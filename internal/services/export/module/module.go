// Package module wires the export service using modkit
package module

import (
	"tripstats/internal/modkit"
	phttp "tripstats/internal/platform/net/http"
	"tripstats/internal/services/export/domain"
	"tripstats/internal/services/export/repo"
	"tripstats/internal/services/export/service"
)

// Ports exposed by the export module
type Ports struct {
	Export domain.ServicePort
}

// Module implements the export module, it has no routes
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the export module over whichever backends deps carries
func New(deps modkit.Deps) *Module {
	o := FromConfig(deps.Cfg)

	var ch repo.Columnar
	if deps.CH != nil {
		ch = repo.NewCH(deps.CH)
	}
	svc := service.New(deps.PG, repo.NewPG(), ch, service.Config{
		Attempts: o.Attempts,
		Backoff:  o.Backoff,
	}, deps.Logger("export"))

	return &Module{deps: deps, svc: svc, ports: Ports{Export: svc}}
}

// Service returns the export port
func (m *Module) Service() domain.ServicePort { return m.ports.Export }

// Enabled reports whether any export backend is configured
func (m *Module) Enabled() bool { return m.svc.Enabled() }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "export" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
