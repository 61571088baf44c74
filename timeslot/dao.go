package timeslot

import (
	"context"
	"database/sql"
	"fmt"

	"reservation-system/database"
)

func (a *Accessor) List(ctx context.Context) ([]TimeSlot, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, start, "end", days FROM time_slots`)
	if err != nil {
		return nil, fmt.Errorf("query time slots: %w", database.MapError(err))
	}
	defer rows.Close()

	slots := []TimeSlot{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *t)
	}
	return slots, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*TimeSlot, error) {
	var t TimeSlot
	var days DaysColumn
	if err := row.Scan(&t.ID, &t.Start, &t.End, &days); err != nil {
		return nil, fmt.Errorf("scan time slot: %w", database.MapError(err))
	}
	t.Days = []string(days)
	return &t, nil
}

func (a *Accessor) Get(ctx context.Context, id int64) (*TimeSlot, error) {
	return get(ctx, a.db, id)
}

func get(ctx context.Context, q database.Queryer, id int64) (*TimeSlot, error) {
	row := q.QueryRowContext(ctx, `SELECT id, start, "end", days FROM time_slots WHERE id = ?`, id)
	return scan(row)
}

// Create validates and persists a new time slot, returning the stored row
// with its assigned id. Insert and read-back share one transaction.
func (a *Accessor) Create(ctx context.Context, t TimeSlot) (*TimeSlot, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var created *TimeSlot
	err := database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO time_slots (start, "end", days) VALUES (?, ?, ?)`,
			t.Start, t.End, DaysColumn(t.Days))
		if err != nil {
			return fmt.Errorf("insert time slot: %w", database.MapError(err))
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

// Update re-validates and rewrites an existing time slot. A zero-row update
// means the slot does not exist.
func (a *Accessor) Update(ctx context.Context, t TimeSlot) (*TimeSlot, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var updated *TimeSlot
	err := database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE time_slots SET start = ?, "end" = ?, days = ? WHERE id = ?`,
			t.Start, t.End, DaysColumn(t.Days), t.ID)
		if err != nil {
			return fmt.Errorf("update time slot: %w", database.MapError(err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return database.ErrNotFound
		}
		updated, err = get(ctx, tx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a time slot, failing with ErrHasReservations while any
// reservation still references it. Guard and delete share one transaction;
// the restrict foreign key backstops the rule at the store level.
func (a *Accessor) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		if _, err := get(ctx, tx, id); err != nil {
			return err
		}

		var count int
		row := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE time_slot_id = ?`, id)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("count reservations: %w", database.MapError(err))
		}
		if count > 0 {
			return fmt.Errorf("%w (%d)", ErrHasReservations, count)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete time slot: %w", database.MapError(err))
		}
		return nil
	})
}
