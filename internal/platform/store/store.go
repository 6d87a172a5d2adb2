// Package store opens the optional export backends of a run: Postgres for the
// run header and its cells, ClickHouse for the zone hour histogram
package store

import (
	"context"
	"errors"

	"tripstats/internal/platform/logger"
	"tripstats/internal/platform/store/ch"
	"tripstats/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type (
	// Querier is the Postgres statement surface
	Querier = pg.Querier
	// Row is a single row result
	Row = pgx.Row
	// CommandTag reports what a statement changed
	CommandTag = pgconn.CommandTag
	// Rows is a ClickHouse result set
	Rows = ch.Rows
)

// TxRunner runs Postgres statements alone or inside one transaction
type TxRunner interface {
	Querier
	Tx(ctx context.Context, fn func(q Querier) error) error
}

// Columnar is the ClickHouse seam the histogram export writes through
type Columnar interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

var (
	_ TxRunner = (*pg.DB)(nil)
	_ Columnar = (*ch.CH)(nil)
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Store holds the backends a run enabled, a nil seam is a disabled backend
// the zero value and a nil *Store have no backends
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Columnar
}

// Option adjusts a Store before its backends are opened
type Option func(*Store)

// WithLogger routes readiness retries and statement logs to log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open connects every backend with a URL in cfg and waits until it answers
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}

	if cfg.Postgres.URL != "" {
		db, err := openPG(ctx, cfg, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = db
	}
	if cfg.ClickHouse.URL != "" {
		c, err := openCH(ctx, cfg, s.Log)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}
	return s, nil
}

// Check is the readiness of one backend
type Check struct {
	Backend string
	Enabled bool
	Err     error
}

// Checks pings the enabled backends, pg first then ch
func (s *Store) Checks(ctx context.Context) []Check {
	var pgSeam, chSeam any
	if s != nil {
		if s.PG != nil {
			pgSeam = s.PG
		}
		if s.CH != nil {
			chSeam = s.CH
		}
	}
	return []Check{check(ctx, "pg", pgSeam), check(ctx, "ch", chSeam)}
}

func check(ctx context.Context, name string, seam any) Check {
	c := Check{Backend: name, Enabled: seam != nil}
	if p, ok := seam.(pinger); ok {
		c.Err = p.Ping(ctx)
	}
	return c
}

// Close closes every open backend, safe on nil
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
