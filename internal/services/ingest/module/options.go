package module

import (
	"runtime"

	"tripstats/internal/adapters/source/file"
	"tripstats/internal/platform/config"
	"tripstats/internal/services/ingest/domain"
	"tripstats/internal/services/ingest/service"
)

// Options holds configuration settings for the ingest module
type Options struct {
	Workers      int
	BatchLines   int
	MaxLineBytes int
	Layout       domain.Layout
}

// FromConfig reads configuration settings from the config.Conf
// CORE_INGEST_WORKERS=auto uses one worker per CPU
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("CORE_INGEST_")
	workers := runtime.NumCPU()
	if ic.MayString("WORKERS", "") != "auto" {
		workers = ic.MayInt("WORKERS", 1)
	}
	return Options{
		Workers:      workers,
		BatchLines:   ic.MayInt("BATCH_LINES", service.DefaultBatchLines),
		MaxLineBytes: ic.MayInt("MAX_LINE_BYTES", file.DefaultMaxLine),
		Layout: domain.Layout{
			ZoneColumn: ic.MayInt("ZONE_COLUMN", domain.DefaultLayout.ZoneColumn),
			TimeColumn: ic.MayInt("TIME_COLUMN", domain.DefaultLayout.TimeColumn),
		},
	}
}
