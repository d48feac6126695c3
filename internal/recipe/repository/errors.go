package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	_, ok := uniqueConstraint(err)
	return ok
}

// uniqueConstraint extracts the violated constraint (postgres) or column list (sqlite).
func uniqueConstraint(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed:"); i >= 0 {
		return strings.TrimSpace(msg[i+len("UNIQUE constraint failed:"):]), true
	}
	return "", false
}

// recipeFieldForConstraint names the write field responsible for a unique violation.
func recipeFieldForConstraint(constraint string) string {
	switch {
	case strings.Contains(constraint, "ingredient"):
		return "ingredients"
	case strings.Contains(constraint, "tag"):
		return "tags"
	default:
		return "name"
	}
}
