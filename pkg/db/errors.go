package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether the provided error is a storage-level
// unique constraint violation. When constraintName is provided, the match is
// narrowed to that constraint. The check understands pgx, lib/pq, and the
// sqlite driver used in tests.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != uniqueViolationCode {
			return false
		}
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != uniqueViolationCode {
			return false
		}
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return constraintName == "" || strings.Contains(msg, constraintName) || sqliteConstraintMatches(msg, constraintName)
	}
	return false
}

// sqlite reports the violated columns, not the index name.
var sqliteConstraintColumns = map[string][]string{
	"idx_ratings_user_store": {"user_id", "store_id"},
	"idx_users_email":        {"email"},
}

func sqliteConstraintMatches(msg, constraintName string) bool {
	columns, ok := sqliteConstraintColumns[constraintName]
	if !ok {
		return false
	}
	for _, column := range columns {
		if !strings.Contains(msg, column) {
			return false
		}
	}
	return true
}
