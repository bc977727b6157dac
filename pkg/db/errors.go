package db

import "strings"

// IsUniqueViolation reports whether err looks like a unique constraint hit.
// With a constraint name it matches that constraint specifically; without
// one it matches the generic Postgres and sqlite violation text (sqlite
// backs the test suite).
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
