package store

import (
	"context"
	"fmt"
	"time"

	"tripstats/internal/platform/logger"
	"tripstats/internal/platform/store/ch"
	"tripstats/internal/platform/store/pg"
)

const (
	defaultAttempts    = 20
	defaultPingTimeout = 3 * time.Second
	firstBackoff       = 150 * time.Millisecond
	maxBackoff         = 2 * time.Second
)

var after = time.After

func openPG(ctx context.Context, cfg Config, log logger.Logger) (*pg.DB, error) {
	db, err := pg.Open(ctx, pg.Config{
		URL:      cfg.Postgres.URL,
		App:      cfg.App,
		MaxConns: cfg.Postgres.MaxConns,
		Slow:     cfg.Postgres.Slow,
		LogSQL:   cfg.Postgres.LogSQL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := waitReady(ctx, "postgres", db, cfg, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func openCH(ctx context.Context, cfg Config, log logger.Logger) (*ch.CH, error) {
	chCfg := ch.Config{URL: cfg.ClickHouse.URL, Role: "export", Tag: cfg.App}
	if cfg.ClickHouse.LogSQL {
		l := log.With().Str("component", "ch").Logger()
		chCfg.Debugf = func(format string, v ...any) { l.Info().Msgf(format, v...) }
	}
	c, err := ch.Open(ctx, chCfg)
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, "clickhouse", c, cfg, log); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// waitReady pings p until it answers, the attempts run out or ctx ends
// backends started next to the CLI (compose, testcontainers) need a few seconds
func waitReady(ctx context.Context, name string, p pinger, cfg Config, log logger.Logger) error {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	backoff := firstBackoff
	for i := 1; ; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Ping(pctx)
		cancel()
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case i >= attempts:
			return fmt.Errorf("%s not ready after %d attempts: %w", name, attempts, err)
		}
		log.Debug().Err(err).Str("backend", name).Int("attempt", i).Msg("export backend not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-after(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}
