// Package pg is the Postgres side of a run export: a pgxpool whose statements
// are timed and logged
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Config configures the pool and statement logging
type Config struct {
	URL      string
	App      string
	MaxConns int32
	// Slow statements are logged at warn even without LogSQL, 0 disables
	Slow   time.Duration
	LogSQL bool
}

// Querier is the statement surface export repos write through
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a pooled Postgres handle
type DB struct {
	pool  *pgxpool.Pool
	trace tracer
}

var newPool = pgxpool.NewWithConfig

var errNotOpen = errors.New("pg: pool not open")

// Open builds the pool; pgxpool connects lazily so callers Ping before use
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.App != "" {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = map[string]string{}
		}
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.App
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &DB{pool: pool, trace: newTracer(log, cfg)}, nil
}

// Exec runs one statement outside a transaction
func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return traced{c: db.pool, t: db.trace}.Exec(ctx, sql, args...)
}

// QueryRow runs a single row query outside a transaction
func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return traced{c: db.pool, t: db.trace}.QueryRow(ctx, sql, args...)
}

// Tx runs fn in one transaction, rolled back when fn fails
func (db *DB) Tx(ctx context.Context, fn func(q Querier) error) error {
	if db == nil || db.pool == nil {
		return errNotOpen
	}
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	return runTx(ctx, tx, db.trace, fn)
}

// Ping checks the server answers
func (db *DB) Ping(ctx context.Context) error {
	if db == nil || db.pool == nil {
		return errNotOpen
	}
	return db.pool.Ping(ctx)
}

// Close releases the pool, safe on nil
func (db *DB) Close() error {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
	return nil
}

func runTx(ctx context.Context, tx pgx.Tx, t tracer, fn func(q Querier) error) error {
	if err := fn(traced{c: tx, t: t}); err != nil {
		if rb := tx.Rollback(ctx); rb != nil && !errors.Is(rb, pgx.ErrTxClosed) {
			return errors.Join(err, rb)
		}
		return err
	}
	return tx.Commit(ctx)
}

// conn is what pgxpool.Pool and pgx.Tx have in common
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced times every statement of c
type traced struct {
	c conn
	t tracer
}

func (q traced) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := q.c.Exec(ctx, sql, args...)
	q.t.done(sql, len(args), time.Since(start), err)
	return tag, err
}

// QueryRow defers the trace to Scan, where pgx reports the error
func (q traced) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	start := time.Now()
	return scanned{row: q.c.QueryRow(ctx, sql, args...), done: func(err error) {
		q.t.done(sql, len(args), time.Since(start), err)
	}}
}

type scanned struct {
	row  pgx.Row
	done func(error)
}

func (r scanned) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.done(err)
	return err
}
