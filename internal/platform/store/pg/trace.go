package pg

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// tracer logs finished statements: slow ones always, the rest only with LogSQL
type tracer struct {
	log  zerolog.Logger
	slow time.Duration
	all  bool
}

func newTracer(log zerolog.Logger, cfg Config) tracer {
	return tracer{
		log:  log.With().Str("component", "pg").Logger(),
		slow: cfg.Slow,
		all:  cfg.LogSQL,
	}
}

func (t tracer) done(sql string, args int, took time.Duration, err error) {
	slow := t.slow > 0 && took >= t.slow
	if !slow && !t.all {
		return
	}
	ev := t.log.Info()
	if slow {
		ev = t.log.Warn()
	}
	// batched inserts carry thousands of args, only their count is logged
	ev.Dur("took", took).
		Bool("slow", slow).
		Str("sql", squash(sql)).
		Int("args", args).
		Err(err).
		Msg("pg statement")
}

// squash puts a multi-line statement on one line
func squash(sql string) string { return strings.Join(strings.Fields(sql), " ") }
