package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := err.Error()
	// PostgreSQL through drivers that do not expose pgconn.PgError.
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return true
	}
	// SQLite (extended code 2067).
	return strings.Contains(msg, "UNIQUE constraint failed")
}

// DuplicateKeyTarget names what a unique violation collided on: the postgres
// constraint name (e.g. "ux_clans_tag") or, for sqlite, the failing column
// list (e.g. "clans.tag"). Empty when err is not a unique violation.
func DuplicateKeyTarget(err error) string {
	if !IsDuplicateKeyErr(err) {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}

	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed:"); idx >= 0 {
		target := strings.TrimSpace(msg[idx+len("UNIQUE constraint failed:"):])
		if end := strings.IndexAny(target, " ("); end >= 0 {
			target = target[:end]
		}
		return target
	}
	if idx := strings.Index(msg, "unique constraint \""); idx >= 0 {
		target := msg[idx+len("unique constraint \""):]
		if end := strings.IndexByte(target, '"'); end >= 0 {
			return target[:end]
		}
	}
	return ""
}
