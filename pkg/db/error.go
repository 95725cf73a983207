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
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	msg := err.Error()
	switch {
	// PostgreSQL through lib/pq or a wrapped driver
	case strings.Contains(msg, "duplicate key value violates unique constraint"):
		return true
	// MySQL (error code 1062)
	case strings.Contains(msg, "Error 1062"):
		return true
	// SQLite (error code 2067)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return true
	}

	return false
}
