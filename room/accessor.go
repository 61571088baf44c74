package room

import (
	"database/sql"
	"errors"
)

// ErrHasReservations is returned when a delete is rejected because
// reservations still reference the room.
var ErrHasReservations = errors.New("room has existing reservations")

// Accessor is the DB layer entrypoint for room queries.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
