// Package dberrors classifies PostgreSQL errors returned through pgx.
package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation is the SQLSTATE for a unique constraint violation.
const UniqueViolation = "23505"

// ViolatedUniqueConstraint returns the name of the unique constraint err
// violated, if any.
func ViolatedUniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != UniqueViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// IsDuplicateConstraintError reports whether err violated one of the named
// unique constraints.
func IsDuplicateConstraintError(err error, constraints ...string) bool {
	name, ok := ViolatedUniqueConstraint(err)
	if !ok {
		return false
	}
	for _, c := range constraints {
		if c == name {
			return true
		}
	}
	return false
}
