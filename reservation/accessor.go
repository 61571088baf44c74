package reservation

import (
	"database/sql"
	"errors"
)

var (
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrTimeSlotNotFound is returned when the referenced time slot does
	// not exist.
	ErrTimeSlotNotFound = errors.New("time slot not found")
	// ErrSlotTaken is returned when the (room, time slot, date) triple is
	// already booked.
	ErrSlotTaken = errors.New("slot already reserved")
)

// Accessor is the DB layer entrypoint for reservation queries.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
