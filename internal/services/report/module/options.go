package module

import (
	"tripstats/internal/platform/config"
	"tripstats/internal/services/report/service"
)

// Options holds configuration settings for the report module
type Options struct {
	MaxN int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_REPORT_")
	return Options{
		MaxN: rc.MayInt("MAX_N", service.DefaultMaxN),
	}
}
