package timeslot

import (
	"database/sql"
	"errors"
)

// ErrHasReservations is returned when a delete is rejected because
// reservations still reference the time slot.
var ErrHasReservations = errors.New("time slot has existing reservations")

// Accessor is the DB layer entrypoint for time slot queries.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
