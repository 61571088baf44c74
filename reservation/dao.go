package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reservation-system/database"
)

const columns = `id, room_id, time_slot_id, date, user_id, purpose, "groups"`

// List returns all reservations on the given calendar date.
func (a *Accessor) List(ctx context.Context, date string) ([]Reservation, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT `+columns+` FROM reservations WHERE date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", database.MapError(err))
	}
	defer rows.Close()

	reservations := []Reservation{}
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*Reservation, error) {
	var r Reservation
	if err := row.Scan(&r.ID, &r.RoomID, &r.TimeSlotID, &r.Date, &r.UserID, &r.Purpose, &r.Groups); err != nil {
		return nil, fmt.Errorf("scan reservation: %w", database.MapError(err))
	}
	return &r, nil
}

func get(ctx context.Context, q database.Queryer, id int64) (*Reservation, error) {
	row := q.QueryRowContext(ctx, `SELECT `+columns+` FROM reservations WHERE id = ?`, id)
	return scan(row)
}

// IsSlotFree reports whether no reservation exists for the exact
// (room, time slot, date) triple. The weekday set configured on the slot is
// not consulted; filtering offered dates by weekday is the caller's concern.
func (a *Accessor) IsSlotFree(ctx context.Context, roomID, timeSlotID int64, date string) (bool, error) {
	return isSlotFree(ctx, a.db, roomID, timeSlotID, date)
}

func isSlotFree(ctx context.Context, q database.Queryer, roomID, timeSlotID int64, date string) (bool, error) {
	var id int64
	row := q.QueryRowContext(ctx,
		`SELECT id FROM reservations WHERE room_id = ? AND time_slot_id = ? AND date = ?`,
		roomID, timeSlotID, date)
	err := row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check slot: %w", database.MapError(err))
	}
	return false, nil
}

// Create books a room for a time slot on a date. The existence checks, the
// conflict pre-check, and the insert run in one transaction; the UNIQUE
// constraint on (room_id, time_slot_id, date) rejects the loser if two
// transactions race past the pre-check, and that rejection surfaces as
// ErrSlotTaken just like the pre-check.
func (a *Accessor) Create(ctx context.Context, r Reservation) (*Reservation, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var created *Reservation
	err := database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		var exists int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ?`, r.RoomID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		if err != nil {
			return fmt.Errorf("check room: %w", database.MapError(err))
		}

		err = tx.QueryRowContext(ctx, `SELECT id FROM time_slots WHERE id = ?`, r.TimeSlotID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTimeSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("check time slot: %w", database.MapError(err))
		}

		free, err := isSlotFree(ctx, tx, r.RoomID, r.TimeSlotID, r.Date)
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotTaken
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO reservations (room_id, time_slot_id, date, user_id, purpose, "groups") VALUES (?, ?, ?, ?, ?, ?)`,
			r.RoomID, r.TimeSlotID, r.Date, r.UserID, r.Purpose, r.Groups)
		if err != nil {
			mapped := database.MapError(err)
			if errors.Is(mapped, database.ErrConflict) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert reservation: %w", mapped)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		created, err = get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
