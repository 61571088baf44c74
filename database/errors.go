package database

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness or foreign key constraint
	// rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrBusy is returned when the database stayed locked past the busy
	// timeout. The request can be retried.
	ErrBusy = errors.New("database busy")
)

// MapError translates driver-level failures into the package sentinels.
// SQLite reports constraint violations and lock contention only through
// the error text, so the mapping matches on the stable message fragments.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrConflict
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "database table is locked"),
		strings.Contains(msg, "SQLITE_BUSY"):
		return ErrBusy
	}
	return err
}
