package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func errCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return errCode(err) == codeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return errCode(err) == codeForeignKeyViolation
}

// IsRetryable reports whether err is a transient conflict that is safe to
// retry from a fresh read.
func IsRetryable(err error) bool {
	switch errCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	default:
		return false
	}
}
