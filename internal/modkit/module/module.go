// Package module is the contract every tripstats module satisfies. It sits
// below modkit so modules and modkit can both import it.
package module

import (
	phttp "tripstats/internal/platform/net/http"
)

type Module interface {
	Name() string
	// MountRoutes adds the module's report API routes, if it has any
	MountRoutes(r phttp.Router)
	// Ports is the bundle of service ports the module exposes to others
	Ports() any
}
