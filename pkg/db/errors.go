package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When a constraintName is provided, the helper looks
// for the constraint text in the error message; otherwise it matches the
// generic Postgres and sqlite duplicate-key markers.
func IsUniqueViolation(err error, constraintName ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, name := range constraintName {
		if name != "" {
			return strings.Contains(msg, name)
		}
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
