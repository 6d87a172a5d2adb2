// Package module wires the ingest pipeline using modkit
package module

import (
	"tripstats/internal/adapters/source/file"
	"tripstats/internal/modkit"
	phttp "tripstats/internal/platform/net/http"
	"tripstats/internal/services/ingest/domain"
	"tripstats/internal/services/ingest/service"
)

// Ports exposed by the ingest module
type Ports struct {
	Ingest domain.ServicePort
}

// Module implements the ingest module, it has no routes
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the ingest module, opts override values read from deps.Cfg
func New(deps modkit.Deps, opts ...func(*Options)) (*Module, error) {
	o := FromConfig(deps.Cfg)
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.Layout.Validate(); err != nil {
		return nil, err
	}

	svc := service.New(service.Config{
		Workers:    o.Workers,
		BatchLines: o.BatchLines,
		Layout:     o.Layout,
	}, FileOpener(o.MaxLineBytes), deps.Logger("ingest"))

	return &Module{deps: deps, opts: o, ports: Ports{Ingest: svc}}, nil
}

// FileOpener opens local files as line sources
func FileOpener(maxLine int) domain.Opener {
	return func(name string) (domain.LineSource, error) {
		src, err := file.Open(name, file.WithMaxLine(maxLine))
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// Options returns the resolved settings
func (m *Module) Options() Options { return m.opts }

// Service returns the ingest port
func (m *Module) Service() domain.ServicePort { return m.ports.Ingest }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ingest" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
