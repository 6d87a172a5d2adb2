package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{pg("23505"), ErrorCodeValidation},
		{pg("23502"), ErrorCodeValidation},
		{pg("23514"), ErrorCodeValidation},
		{pg("22001"), ErrorCodeInvalidArgument},
		{pg("57P03"), ErrorCodeUnavailable},
		{pg("42P01"), ErrorCodeDB}, // undefined table
		{stderrs.New("conn reset"), ErrorCodeDB},
	}
	for _, c := range cases {
		err := FromPostgres(c.err, "insert zone hours")
		if CodeOf(err) != c.want || !stderrs.Is(err, c.err) {
			t.Fatalf("FromPostgres(%v) = %v (code %v), want %v", c.err, err, CodeOf(err), c.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", stderrs.New("nope"), false},
		{"canceled", fmt.Errorf("tx: %w", context.Canceled), false},
		{"deadline", Wrap(context.DeadlineExceeded, ErrorCodeDB, "insert"), false},
		{"pg serialization", pg("40001"), true},
		{"pg deadlock wrapped", Wrap(pg("40P01"), ErrorCodeDB, "export.pg"), true},
		{"pg lock", pg("55P03"), true},
		{"pg starting", pg("57P03"), true},
		{"pg unique", pg("23505"), false},
		{"ch too many parts", Wrap(&clickhouse.Exception{Code: 252}, ErrorCodeDB, "export.ch: insert"), true},
		{"ch socket timeout", &clickhouse.Exception{Code: 209}, true},
		{"ch unknown table", &clickhouse.Exception{Code: 60}, false},
		{"deadlock text", stderrs.New("ERROR: deadlock detected"), true},
		{"reset text", fmt.Errorf("write: %w", stderrs.New("read tcp: connection reset by peer")), true},
	}
	for _, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("%s: Retryable = %v, want %v", c.name, got, c.want)
		}
	}
}
