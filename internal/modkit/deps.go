// Package modkit provides module wiring and core deps
package modkit

import (
	"tripstats/internal/platform/config"
	"tripstats/internal/platform/logger"
	"tripstats/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	Store *store.Store
	PG    store.TxRunner
	CH    store.Columnar
}

// FromStore builds Deps from an opened store; a nil store yields no backends
func FromStore(cfg config.Conf, log *logger.Logger, st *store.Store) Deps {
	d := Deps{Cfg: cfg, Log: log, Store: st}
	if st != nil {
		d.PG = st.PG
		d.CH = st.CH
	}
	return d
}

// Logger returns Log or the named root logger when Log is unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
