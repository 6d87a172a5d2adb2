package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the Postgres exporter maps
const (
	sqlUniqueViolation  = "23505"
	sqlNotNullViolation = "23502"
	sqlCheckViolation   = "23514"
	sqlValueTooLong     = "22001"
	sqlCannotConnectNow = "57P03"
)

var pgTransient = map[string]bool{
	"40001":             true, // serialization_failure
	"40P01":             true, // deadlock_detected
	"55P03":             true, // lock_not_available
	sqlCannotConnectNow: true,
}

// ClickHouse server error codes worth another insert attempt
var chTransient = map[int32]bool{
	159: true, // TIMEOUT_EXCEEDED
	202: true, // TOO_MANY_SIMULTANEOUS_QUERIES
	209: true, // SOCKET_TIMEOUT
	210: true, // NETWORK_ERROR
	242: true, // TABLE_IS_READ_ONLY
	252: true, // TOO_MANY_PARTS
	319: true, // UNKNOWN_STATUS_OF_INSERT
}

// FromPostgres wraps a Postgres failure with a code picked from its SQLSTATE:
// constraint violations are Validation, truncation is InvalidArgument, a
// starting server is Unavailable and anything else is DB. nil stays nil.
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlUniqueViolation, sqlNotNullViolation, sqlCheckViolation:
			code = ErrorCodeValidation
		case sqlValueTooLong:
			code = ErrorCodeInvalidArgument
		case sqlCannotConnectNow:
			code = ErrorCodeUnavailable
		}
	}
	return Wrap(err, code, msg)
}

// Retryable reports whether an export failure is transient on either backend.
// Context cancellation never is.
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgTransient[pgErr.Code]
	}
	var chErr *clickhouse.Exception
	if stderrs.As(err, &chErr) {
		return chTransient[chErr.Code]
	}

	msg := strings.ToLower(Root(err).Error())
	for _, s := range []string{
		"deadlock detected",
		"could not serialize access",
		"terminating connection due to administrator command",
		"connection reset by peer",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
