// Package modkit wires the ingest, report and export modules from shared deps
package modkit

import (
	"tripstats/internal/modkit/module"
	phttp "tripstats/internal/platform/net/http"
)

type Module = module.Module

// Mount lets each module mount its routes on r; route-less modules do nothing
func Mount(r phttp.Router, mods ...Module) {
	for _, m := range mods {
		m.MountRoutes(r)
	}
}

// MountUnder gives register a subrouter at b.Prefix
func MountUnder(r phttp.Router, b Built, register func(phttp.Router)) {
	r.Route(b.Prefix, register)
}
