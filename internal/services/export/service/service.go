// Package service persists finished ingest runs
package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"tripstats/internal/core/tally"
	"tripstats/internal/modkit/repokit"
	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/logger"
	"tripstats/internal/services/export/domain"
	"tripstats/internal/services/export/repo"

	"github.com/google/uuid"
)

// Service defines the export service contract
type Service interface {
	domain.ServicePort
}

// Config tunes retries of transient backend failures
type Config struct {
	Attempts int
	Backoff  time.Duration
}

// Svc implements the export service, either backend may be nil
type Svc struct {
	pg     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	ch     repo.Columnar
	cfg    Config
	log    *logger.Logger
}

var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// New constructs an export service
func New(pg repokit.TxRunner, binder repokit.Binder[repo.Storage], ch repo.Columnar, cfg Config, log *logger.Logger) *Svc {
	if pg != nil && binder == nil {
		panic("export.Service requires a Repo binder when postgres is set")
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}
	if log == nil {
		log = logger.Named("export")
	}
	return &Svc{pg: pg, binder: binder, ch: ch, cfg: cfg, log: log}
}

// Enabled reports whether any backend is configured
func (s *Svc) Enabled() bool { return s.pg != nil || s.ch != nil }

// Export writes the run to every configured backend
// Postgres gets the run header and its cells in one transaction
func (s *Svc) Export(ctx context.Context, in domain.Input) (domain.Outcome, error) {
	out := domain.Outcome{RunID: in.Run.RunID}
	if !s.Enabled() {
		return out, perr.Unavailablef("export: no backend configured")
	}
	if in.Run.RunID == uuid.Nil {
		return out, perr.WithField(perr.InvalidArgf("export: run id is required"), "run_id")
	}
	if in.Store == nil {
		return out, perr.WithField(perr.InvalidArgf("export: store is required"), "store")
	}

	cells := Flatten(in.Store)
	out.Rows = len(cells)
	log := s.log.With().Str("run_id", in.Run.RunID.String()).Logger()

	if s.pg != nil {
		err := s.retry(ctx, "export.pg", func() error {
			return repokit.WithTx(ctx, s.pg, "export.pg", func(q repokit.Queryer) error {
				r := s.binder.Bind(q)
				if err := r.EnsureSchema(ctx); err != nil {
					return err
				}
				if err := r.InsertRun(ctx, in.Run); err != nil {
					return err
				}
				return r.InsertZoneHours(ctx, in.Run, cells)
			})
		})
		if err != nil {
			return out, err
		}
		out.Postgres = true
		log.Info().Int("rows", len(cells)).Msg("run exported to postgres")
	}

	if s.ch != nil {
		err := s.retry(ctx, "export.ch", func() error {
			if err := s.ch.EnsureSchema(ctx); err != nil {
				return perr.Wrap(err, perr.ErrorCodeDB, "export.ch: schema")
			}
			if err := s.ch.InsertZoneHours(ctx, in.Run, cells); err != nil {
				return perr.Wrap(err, perr.ErrorCodeDB, "export.ch: insert")
			}
			return nil
		})
		if err != nil {
			return out, err
		}
		out.ClickHouse = true
		log.Info().Int("rows", len(cells)).Msg("run exported to clickhouse")
	}
	return out, nil
}

// retry runs fn until it succeeds, fails permanently or attempts run out
func (s *Svc) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.Attempts; attempt++ {
		if err = fn(); err == nil || !perr.Retryable(err) || attempt == s.cfg.Attempts {
			return err
		}
		s.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("transient export failure, retrying")
		if serr := sleep(ctx, s.cfg.Backoff*time.Duration(attempt)); serr != nil {
			return perr.Canceled(serr, op)
		}
	}
	return err
}

// Flatten lists every non-zero cell ordered by zone then hour
func Flatten(st domain.Ranger) []domain.ZoneHour {
	var out []domain.ZoneHour
	st.Range(func(r tally.ZoneRecord) bool {
		for h, c := range r.Hourly {
			if c > 0 {
				out = append(out, domain.ZoneHour{Zone: r.Name, Hour: h, Trips: c})
			}
		}
		return true
	})
	slices.SortFunc(out, func(a, b domain.ZoneHour) int {
		if c := cmp.Compare(a.Zone, b.Zone); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	return out
}
