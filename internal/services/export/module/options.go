package module

import (
	"time"

	"tripstats/internal/platform/config"
)

// Options holds configuration settings for the export module
type Options struct {
	Attempts int
	Backoff  time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	ec := cfg.Prefix("CORE_EXPORT_")
	return Options{
		Attempts: ec.MayInt("ATTEMPTS", 3),
		Backoff:  ec.MayDuration("BACKOFF", 200*time.Millisecond),
	}
}
