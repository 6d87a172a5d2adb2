package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	kit "tripstats/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestOpen_NoBackends(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("unexpected seams PG=%T CH=%T", s.PG, s.CH)
	}
	for _, c := range s.Checks(context.Background()) {
		if c.Enabled || c.Err != nil {
			t.Fatalf("check %+v on an empty store", c)
		}
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_BadURLs(t *testing.T) {
	t.Parallel()

	for _, cfg := range []Config{
		{Postgres: Postgres{URL: "://bad"}},
		{ClickHouse: ClickHouse{URL: "://bad"}},
	} {
		s, err := Open(context.Background(), cfg)
		if err == nil || s != nil {
			t.Fatalf("%+v: expected error and nil store, got %v %#v", cfg, err, s)
		}
	}
}

func TestOpen_CanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{Attempts: 3, Postgres: Postgres{URL: "postgres://u:p@127.0.0.1:1/trips?sslmode=disable"}}
	if _, err := Open(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type flaky struct {
	fails int
	calls int
}

func (f *flaky) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.fails {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReady(t *testing.T) {
	kit.Serial(t)

	var waits []time.Duration
	kit.Swap(t, &after, func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	})

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	p := &flaky{fails: 5}
	if err := waitReady(context.Background(), "postgres", p, Config{}, log); err != nil {
		t.Fatalf("waitReady: %v", err)
	}
	if p.calls != 6 {
		t.Fatalf("pinged %d times", p.calls)
	}
	want := []time.Duration{150 * time.Millisecond, 300 * time.Millisecond, 600 * time.Millisecond, 1200 * time.Millisecond, 2 * time.Second}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("backoff = %v, want %v", waits, want)
		}
	}
	if n := strings.Count(buf.String(), "export backend not ready"); n != 5 {
		t.Fatalf("retry logs = %d", n)
	}

	p = &flaky{fails: 100}
	err := waitReady(context.Background(), "clickhouse", p, Config{Attempts: 3}, log)
	if err == nil || p.calls != 3 {
		t.Fatalf("err=%v calls=%d", err, p.calls)
	}
	kit.MustContain(t, err.Error(), "clickhouse not ready after 3 attempts")
}

// pingTx is a TxRunner whose readiness is scripted
type pingTx struct {
	TxRunner
	err    error
	closed bool
}

func (p *pingTx) Ping(context.Context) error { return p.err }
func (p *pingTx) Close() error               { p.closed = true; return nil }

// fakeColumnar is a Columnar without Ping
type fakeColumnar struct {
	Columnar
	closed bool
}

func (f *fakeColumnar) Close() error { f.closed = true; return nil }

func TestChecksAndClose(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if got := nilStore.Checks(context.Background()); len(got) != 2 || got[0].Enabled || got[1].Enabled {
		t.Fatalf("nil store checks = %+v", got)
	}
	if err := nilStore.Close(context.Background()); err != nil {
		t.Fatalf("nil Close: %v", err)
	}

	pgSeam := &pingTx{err: errors.New("pg down")}
	chSeam := &fakeColumnar{}
	s := &Store{PG: pgSeam, CH: chSeam}
	got := s.Checks(context.Background())
	if got[0].Backend != "pg" || !got[0].Enabled || got[0].Err == nil {
		t.Fatalf("pg check = %+v", got[0])
	}
	if got[1].Backend != "ch" || !got[1].Enabled || got[1].Err != nil {
		t.Fatalf("ch check without Ping = %+v", got[1])
	}

	if err := s.Close(context.Background()); err != nil || !pgSeam.closed || !chSeam.closed {
		t.Fatalf("Close err=%v pg=%v ch=%v", err, pgSeam.closed, chSeam.closed)
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("logger not applied")
	}
}
