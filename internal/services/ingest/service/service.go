// Package service contains the ingest pipeline
package service

import (
	"context"
	"errors"
	"time"

	"tripstats/internal/core/tally"
	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/logger"
	"tripstats/internal/services/ingest/domain"

	"github.com/google/uuid"
)

const (
	// ctxEvery is how many lines pass between context checks
	ctxEvery = 4096
	// DefaultBatchLines is the shard batch size
	DefaultBatchLines = 4096
	sampleRawMax      = 256
)

// Service defines the ingest service contract
type Service interface {
	domain.ServicePort
}

// Config tunes the pipeline
type Config struct {
	Workers    int
	BatchLines int
	Layout     domain.Layout
}

// Svc implements the ingest service
type Svc struct {
	cfg  Config
	open domain.Opener
	log  *logger.Logger
}

var now = time.Now

// New constructs an ingest service
// Workers below 2 selects the sequential pass
func New(cfg Config, open domain.Opener, log *logger.Logger) *Svc {
	if open == nil {
		panic("ingest.Service requires a non nil Opener")
	}
	if cfg.BatchLines <= 0 {
		cfg.BatchLines = DefaultBatchLines
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Layout == (domain.Layout{}) {
		cfg.Layout = domain.DefaultLayout
	}
	if log == nil {
		log = logger.Named("ingest")
	}
	return &Svc{cfg: cfg, open: open, log: log}
}

// IngestFile opens name and ingests it
// an unopenable source yields an empty store together with an Unavailable error
func (s *Svc) IngestFile(ctx context.Context, name string) (domain.Result, error) {
	src, err := s.open(name)
	if err != nil {
		res := s.begin(name)
		res.Finished = now()
		if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
			err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "open source %s", name)
		}
		s.log.Warn().Err(err).Str("run_id", res.RunID).Str("source", name).Msg("source unavailable, nothing ingested")
		return res, err
	}
	return s.Ingest(ctx, name, src)
}

// Ingest drains src into a fresh store, src is closed on every path
// a read error or cancellation returns what was ingested so far with the error
func (s *Svc) Ingest(ctx context.Context, name string, src domain.LineSource) (res domain.Result, err error) {
	res = s.begin(name)
	log := s.log.With().Str("run_id", res.RunID).Logger()

	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = perr.Wrapf(cerr, perr.ErrorCodeUnavailable, "close source %s", name)
		}
	}()

	var st *tally.Store
	var stats domain.Stats
	if s.cfg.Workers > 1 {
		st, stats, err = s.sharded(ctx, src, &log)
	} else {
		st, stats, err = s.sequential(ctx, src, &log)
	}
	res.Finished = now()
	stats.Elapsed = res.Finished.Sub(res.Started)
	res.Store, res.Stats = st, stats

	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("source", name).
		Int("workers", res.Workers).
		Int64("lines", stats.Lines).
		Int64("recorded", stats.Recorded).
		Int64("empty", stats.Empty).
		Int64("short", stats.Short).
		Int64("no_zone", stats.NoZone).
		Int64("bad_hour", stats.BadHour).
		Int64("out_of_range", stats.OutOfRange).
		Int64("faults", stats.Faults).
		Int64("too_long", stats.TooLong).
		Int64("bytes", stats.Bytes).
		Int("zones", st.Len()).
		Dur("elapsed", stats.Elapsed).
		Float64("lines_per_sec", stats.LinesPerSec()).
		Msg("ingest finished")
	return res, err
}

func (s *Svc) begin(name string) domain.Result {
	return domain.Result{
		RunID:   uuid.NewString(),
		Source:  name,
		Workers: s.cfg.Workers,
		Started: now(),
		Store:   tally.New(),
	}
}

// sequential is the single goroutine pass
func (s *Svc) sequential(ctx context.Context, src domain.LineSource, log *logger.Logger) (*tally.Store, domain.Stats, error) {
	p := newPass(s.cfg.Layout)
	over, _ := src.(domain.Oversizer)
	sampled := false
	for src.Scan() {
		if n := oversized(over); n > 0 {
			p.stats.Bytes += int64(n)
			p.stats.Count(domain.TooLong)
		} else {
			line := src.Bytes()
			if !sampled && len(line) > 0 {
				sampled = true
				sample(log, line)
			}
			p.stats.Bytes += int64(len(line) + 1)
			p.feed(line)
		}
		if p.stats.Lines%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return p.store, p.stats, err
			}
		}
	}
	return p.store, p.stats, readErr(src)
}

func oversized(o domain.Oversizer) int {
	if o == nil {
		return 0
	}
	return o.Oversized()
}

// sample logs one raw line at debug so the input shape is visible in logs
func sample(log *logger.Logger, line []byte) {
	raw := line
	if len(raw) > sampleRawMax {
		raw = raw[:sampleRawMax]
	}
	log.Debug().Int("line_bytes", len(line)).Bytes("sample", raw).Msg("ingest sample line")
}

func readErr(src domain.LineSource) error {
	err := src.Err()
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return perr.Wrap(err, perr.ErrorCodeUnavailable, "read source")
}
