// Package logger holds the process zerolog logger. Everything logs to stderr
// so stdout carries nothing but the rendered report.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"tripstats/internal/core/version"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options picks the root logger's level, encoding and sink
type Options struct {
	Level  string // trace..panic, off
	Format string // console or json
	Caller bool
	Writer io.Writer
}

// FromEnv reads LOG_LEVEL (info), LOG_FORMAT (console) and LOG_CALLER.
// It reads the environment directly because config logs through this package.
func FromEnv() Options {
	env := func(k string) string { return strings.ToLower(strings.TrimSpace(os.Getenv("LOG_" + k))) }
	o := Options{Level: env("LEVEL"), Format: env("FORMAT")}
	switch env("CALLER") {
	case "1", "true", "yes":
		o.Caller = true
	}
	if o.Level == "" {
		o.Level = "info"
	}
	if o.Format == "" {
		o.Format = "console"
	}
	return o
}

var (
	once sync.Once
	root zerolog.Logger
)

// Init builds the root logger; the first call wins, later calls are no-ops
func Init(opt Options) { once.Do(func() { build(opt) }) }

// Get returns the root logger, built from FromEnv when Init was never called
func Get() *Logger {
	once.Do(func() { build(FromEnv()) })
	return &root
}

func build(opt Options) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opt.Writer
	if w == nil {
		w = os.Stderr
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	zctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().
		Timestamp().
		Str("service", "tripstats").
		Str("commit", version.Commit())
	if opt.Caller {
		zctx = zctx.Caller()
	}
	root = zctx.Logger()
}

var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"panic":    zerolog.PanicLevel,
	"off":      zerolog.Disabled,
	"disabled": zerolog.Disabled,
}

// parseLevel falls back to info for anything it does not know
func parseLevel(s string) zerolog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// Named is a child of the root logger for one pipeline stage (ingest, export, http)
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type requestKey struct{}

// WithRequest stores the report API request id for C
func WithRequest(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestKey{}, id)
}

// C is the root logger, tagged with request_id inside an API request
func C(ctx context.Context) *Logger {
	id, _ := ctx.Value(requestKey{}).(string)
	if id == "" {
		return Get()
	}
	l := Get().With().Str("request_id", id).Logger()
	return &l
}
