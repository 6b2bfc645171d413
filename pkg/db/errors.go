package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err is a unique constraint violation. When
// constraintName is provided only that constraint matches.
func IsUniqueViolation(err error, constraintName string) bool {
	if matchesPG(err, pgUniqueViolation, constraintName) {
		return true
	}
	if err == nil || hasPGError(err) {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraintName == ""
	}
	// sqlite in tests reports constraint failures only as text
	msg := err.Error()
	if constraintName != "" && !strings.Contains(msg, constraintName) {
		return false
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports a write referencing a missing row, such as a
// banner pointing at a deleted product.
func IsForeignKeyViolation(err error, constraintName string) bool {
	if matchesPG(err, pgForeignKeyViolation, constraintName) {
		return true
	}
	if err == nil || hasPGError(err) {
		return false
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports a CHECK constraint failure, for example a
// non-positive price reaching the products table.
func IsCheckViolation(err error, constraintName string) bool {
	if matchesPG(err, pgCheckViolation, constraintName) {
		return true
	}
	if err == nil || hasPGError(err) {
		return false
	}
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || strings.Contains(err.Error(), "CHECK constraint failed")
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func pgCodeAndConstraint(err error) (string, string, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

func hasPGError(err error) bool {
	_, _, ok := pgCodeAndConstraint(err)
	return ok
}

func matchesPG(err error, code, constraintName string) bool {
	if err == nil {
		return false
	}
	actualCode, actualConstraint, ok := pgCodeAndConstraint(err)
	if !ok || actualCode != code {
		return false
	}
	return constraintName == "" || actualConstraint == constraintName
}
