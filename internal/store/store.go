package store

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlugTaken is returned when an insert hits the unique index on
	// invitations.slug. The pre-allocation probe is only an optimization;
	// this is the authoritative signal, and the caller retries through the
	// allocator.
	ErrSlugTaken = errors.New("slug is already taken")

	// ErrDuplicateRSVP is returned when an invitation already has an RSVP
	// for the submitted email address.
	ErrDuplicateRSVP = errors.New("an RSVP for this email already exists")
)

// mapNoRows converts sql.ErrNoRows into ErrNotFound and passes other errors
// through.
func mapNoRows(err error) error {
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// isUniqueConstraintError reports whether err is a unique-constraint
// violation from any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
