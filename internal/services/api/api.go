// Package api mounts the read only report API
package api

import (
	"strings"
	"time"

	"tripstats/internal/modkit"
	"tripstats/internal/modkit/module"
	"tripstats/internal/platform/config"
	"tripstats/internal/platform/logger"
	"tripstats/internal/platform/net/middleware"
	phttp "tripstats/internal/platform/net/http"
	metamod "tripstats/internal/services/api/meta/module"
	reportdomain "tripstats/internal/services/report/domain"
	reportmod "tripstats/internal/services/report/module"
)

// Options are the API options
type Options struct {
	Deps   modkit.Deps
	Inputs reportdomain.Inputs
	Logger *logger.Logger
}

// Settings are read from CORE_API_*
type Settings struct {
	Timeout     time.Duration
	SlowRequest time.Duration
	CORSOrigins []string
}

// FromConfig reads API settings from cfg
func FromConfig(cfg config.Conf) Settings {
	ac := cfg.Prefix("CORE_API_")
	var origins []string
	for _, o := range strings.Split(ac.MayString("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Settings{
		Timeout:     ac.MayDuration("TIMEOUT", 15*time.Second),
		SlowRequest: ac.MayDuration("SLOW", 500*time.Millisecond),
		CORSOrigins: origins,
	}
}

// Mount installs the middleware stack and every API module on r
// it returns the mounted modules so callers can look up ports
func Mount(r phttp.Router, opt Options) ([]module.Module, error) {
	s := FromConfig(opt.Deps.Cfg)

	reports, err := reportmod.New(opt.Deps, modkit.WithPorts(opt.Inputs))
	if err != nil {
		return nil, err
	}
	mods := []module.Module{
		metamod.New(opt.Deps),
		reports,
	}

	r.Use(middleware.Stack(middleware.Options{
		Timeout: s.Timeout,
		Slow:    s.SlowRequest,
		Origins: s.CORSOrigins,
		Log:     opt.Logger,
	})...)
	modkit.Mount(r, mods...)
	return mods, nil
}
