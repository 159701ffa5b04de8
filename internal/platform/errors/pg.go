package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstateCode classifies the SQLSTATEs the ledger can hit; the rest are ErrorCodeDB
var sqlstateCode = map[string]ErrorCode{
	"23505": ErrorCodeConflict,        // unique_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// retrySQLState lists transient SQLSTATEs
var retrySQLState = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57P03": true, // cannot_connect_now
}

// retryText catches failures pgx reports only as message text, such as on commit
var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

// DBErrorCode classifies a Postgres error; ok is false when err holds no *pgconn.PgError
func DBErrorCode(err error) (code ErrorCode, ok bool) {
	var pe *pgconn.PgError
	if !stderrs.As(err, &pe) {
		return ErrorCodeUnknown, false
	}
	if c, hit := sqlstateCode[pe.Code]; hit {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with msg under its classified code; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrapf(err, code, "%s", msg)
}

// Retryable reports whether a storage error is worth another attempt;
// a cancelled or expired context never is
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return retrySQLState[pe.Code]
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range retryText {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
