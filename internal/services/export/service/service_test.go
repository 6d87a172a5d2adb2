package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"tripstats/internal/core/tally"
	"tripstats/internal/modkit/repokit"
	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/logger"
	kit "tripstats/internal/platform/testkit"
	"tripstats/internal/services/export/domain"
	"tripstats/internal/services/export/repo"
	ingest "tripstats/internal/services/ingest/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type execCall struct {
	sql  string
	args []any
}

type fakeQ struct {
	repokit.Queryer
	calls *[]execCall
	fail  string
}

func (q fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	*q.calls = append(*q.calls, execCall{sql: sql, args: args})
	if q.fail != "" && strings.Contains(sql, q.fail) {
		return repokit.CommandTag{}, errors.New("boom on " + q.fail)
	}
	return repokit.CommandTag{}, nil
}

type fakePG struct {
	repokit.Queryer
	calls   []execCall
	txErrs  []error
	txCount int
	fail    string
}

func (f *fakePG) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	f.txCount++
	if len(f.txErrs) > 0 {
		err := f.txErrs[0]
		f.txErrs = f.txErrs[1:]
		if err != nil {
			return err
		}
	}
	var calls []execCall
	if err := fn(fakeQ{calls: &calls, fail: f.fail}); err != nil {
		return err
	}
	f.calls = append(f.calls, calls...)
	return nil
}

type fakeCH struct {
	execs   []string
	table   string
	rows    [][]any
	insertE error
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}
func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return f.insertE
}
func (f *fakeCH) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                                { return nil }

func nopLog() *logger.Logger {
	l := zerolog.Nop()
	return &l
}

func exampleInput() domain.Input {
	s := tally.New()
	s.Record([]byte("B"), 9)
	s.Record([]byte("A"), 14)
	s.Record([]byte("A"), 14)
	s.Record([]byte("A"), 3)
	return domain.Input{
		Run: domain.RunRecord{
			RunID:      uuid.MustParse("7f1c8a52-5a8e-4a8f-8f4a-0f0e6c1b2a3d"),
			Source:     "trips.csv",
			Workers:    1,
			StartedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC),
			Lines:      5, Recorded: 4, Skipped: 1, Zones: 2, Trips: 4,
		},
		Store: s,
	}
}

func TestFlatten_SortedNonZeroCells(t *testing.T) {
	t.Parallel()

	got := Flatten(exampleInput().Store)
	want := []domain.ZoneHour{{Zone: "A", Hour: 3, Trips: 1}, {Zone: "A", Hour: 14, Trips: 2}, {Zone: "B", Hour: 9, Trips: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten = %+v", got)
	}
	if got := Flatten(tally.New()); len(got) != 0 {
		t.Fatalf("Flatten(empty) = %+v", got)
	}
}

func TestExport_PostgresOneTransaction(t *testing.T) {
	t.Parallel()

	pg := &fakePG{}
	svc := New(pg, repo.NewPG(), nil, Config{}, nopLog())
	out, err := svc.Export(context.Background(), exampleInput())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !out.Postgres || out.ClickHouse || out.Rows != 3 {
		t.Fatalf("outcome = %+v", out)
	}
	if pg.txCount != 1 {
		t.Fatalf("transactions = %d", pg.txCount)
	}
	var sqls []string
	for _, c := range pg.calls {
		sqls = append(sqls, c.sql)
	}
	all := strings.Join(sqls, "\n")
	kit.MustContain(t, all, "CREATE TABLE IF NOT EXISTS trip_runs")
	kit.MustContain(t, all, "CREATE TABLE IF NOT EXISTS trip_zone_hours")
	kit.MustContain(t, all, "INSERT INTO trip_runs")
	last := pg.calls[len(pg.calls)-1]
	kit.MustContain(t, last.sql, "($9,$10,$11,$12)")
	if len(last.args) != 12 || last.args[1] != "A" || last.args[2] != 3 {
		t.Fatalf("zone hour args = %v", last.args)
	}
}

func TestExport_PostgresChunksLargeRuns(t *testing.T) {
	t.Parallel()

	s := tally.New()
	for z := 0; z < 100; z++ {
		for h := 0; h < tally.HoursPerDay; h++ {
			s.Record([]byte(string(rune('a'+z%26))+strings.Repeat("x", z/26)), h)
		}
	}
	in := exampleInput()
	in.Store = s

	pg := &fakePG{}
	if _, err := New(pg, repo.NewPG(), nil, Config{}, nopLog()).Export(context.Background(), in); err != nil {
		t.Fatalf("Export: %v", err)
	}
	inserts := 0
	for _, c := range pg.calls {
		if strings.HasPrefix(c.sql, "INSERT INTO trip_zone_hours") {
			inserts++
		}
	}
	if inserts != 3 {
		t.Fatalf("zone hour statements = %d, want 3 for 2400 rows", inserts)
	}
}

func TestExport_RetriesTransientThenSucceeds(t *testing.T) {
	kit.Swap(t, &sleep, func(context.Context, time.Duration) error { return nil })

	pg := &fakePG{txErrs: []error{&pgconn.PgError{Code: "40001", Message: "could not serialize"}}}
	out, err := New(pg, repo.NewPG(), nil, Config{Attempts: 3}, nopLog()).Export(context.Background(), exampleInput())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if pg.txCount != 2 || !out.Postgres {
		t.Fatalf("tx count = %d outcome = %+v", pg.txCount, out)
	}
}

func TestExport_PermanentFailureNotRetried(t *testing.T) {
	kit.Swap(t, &sleep, func(context.Context, time.Duration) error { return nil })

	pg := &fakePG{fail: "INSERT INTO trip_runs"}
	_, err := New(pg, repo.NewPG(), nil, Config{Attempts: 5}, nopLog()).Export(context.Background(), exampleInput())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want DB", err)
	}
	if pg.txCount != 1 {
		t.Fatalf("permanent failure retried %d times", pg.txCount)
	}
}

func TestExport_RetryGivesUp(t *testing.T) {
	kit.Swap(t, &sleep, func(context.Context, time.Duration) error { return nil })

	busy := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	pg := &fakePG{txErrs: []error{busy, busy, busy}}
	_, err := New(pg, repo.NewPG(), nil, Config{Attempts: 2}, nopLog()).Export(context.Background(), exampleInput())
	if err == nil || pg.txCount != 2 {
		t.Fatalf("err = %v after %d attempts", err, pg.txCount)
	}
}

func TestExport_ClickHouseBatch(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{}
	out, err := New(nil, nil, repo.NewCH(ch), Config{}, nopLog()).Export(context.Background(), exampleInput())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out.Postgres || !out.ClickHouse {
		t.Fatalf("outcome = %+v", out)
	}
	if len(ch.execs) != 1 || !strings.Contains(ch.execs[0], "MergeTree") {
		t.Fatalf("ddl = %q", ch.execs)
	}
	if ch.table != "trip_zone_hours" || len(ch.rows) != 3 {
		t.Fatalf("insert %s rows=%d", ch.table, len(ch.rows))
	}
	first := ch.rows[0]
	if first[3] != "A" || first[4] != uint8(3) || first[5] != uint64(1) {
		t.Fatalf("first row = %v", first)
	}
}

func TestExport_ClickHouseFailureIsDB(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{insertE: errors.New("connection reset")}
	_, err := New(nil, nil, repo.NewCH(ch), Config{Attempts: 1}, nopLog()).Export(context.Background(), exampleInput())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
}

func TestExport_Guards(t *testing.T) {
	t.Parallel()

	none := New(nil, nil, nil, Config{}, nopLog())
	if none.Enabled() {
		t.Fatalf("service without backends reports enabled")
	}
	if _, err := none.Export(context.Background(), exampleInput()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("no backend err = %v", err)
	}

	svc := New(&fakePG{}, repo.NewPG(), nil, Config{}, nopLog())
	in := exampleInput()
	in.Run.RunID = uuid.Nil
	if _, err := svc.Export(context.Background(), in); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("nil run id err = %v", err)
	}
	in = exampleInput()
	in.Store = nil
	if _, err := svc.Export(context.Background(), in); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("nil store err = %v", err)
	}

	kit.MustPanic(t, func() { New(&fakePG{}, nil, nil, Config{}, nil) })
}

func TestInputFrom(t *testing.T) {
	t.Parallel()

	s := tally.New()
	s.Record([]byte("A"), 1)
	res := ingest.Result{
		RunID:   uuid.NewString(),
		Source:  "trips.csv",
		Workers: 4,
		Stats:   ingest.Stats{Lines: 3, Recorded: 1, Empty: 1, Faults: 1, Bytes: 60},
		Store:   s,
	}
	in, err := InputFrom(res)
	if err != nil {
		t.Fatalf("InputFrom: %v", err)
	}
	r := in.Run
	if r.RunID.String() != res.RunID || r.Skipped != 2 || r.Faults != 1 || r.Zones != 1 || r.Trips != 1 || r.Workers != 4 {
		t.Fatalf("run = %+v", r)
	}

	res.RunID = "not-a-uuid"
	if _, err := InputFrom(res); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad id err = %v", err)
	}
}
