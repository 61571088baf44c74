package room

import (
	"context"
	"database/sql"
	"fmt"

	"reservation-system/database"
)

func (a *Accessor) List(ctx context.Context) ([]Room, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, name, capacity, building FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", database.MapError(err))
	}
	defer rows.Close()

	rooms := []Room{}
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Capacity, &r.Building); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (a *Accessor) Get(ctx context.Context, id int64) (*Room, error) {
	return get(ctx, a.db, id)
}

func get(ctx context.Context, q database.Queryer, id int64) (*Room, error) {
	var r Room
	row := q.QueryRowContext(ctx, `SELECT id, name, capacity, building FROM rooms WHERE id = ?`, id)
	if err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Building); err != nil {
		return nil, fmt.Errorf("get room: %w", database.MapError(err))
	}
	return &r, nil
}

// Create validates and persists a new room, returning the stored row with
// its assigned id. Insert and read-back share one transaction.
func (a *Accessor) Create(ctx context.Context, r Room) (*Room, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var created *Room
	err := database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (name, capacity, building) VALUES (?, ?, ?)`,
			r.Name, r.Capacity, r.Building)
		if err != nil {
			return fmt.Errorf("insert room: %w", database.MapError(err))
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

// Update re-validates and rewrites an existing room. A zero-row update means
// the room does not exist.
func (a *Accessor) Update(ctx context.Context, r Room) (*Room, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var updated *Room
	err := database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE rooms SET name = ?, capacity = ?, building = ? WHERE id = ?`,
			r.Name, r.Capacity, r.Building, r.ID)
		if err != nil {
			return fmt.Errorf("update room: %w", database.MapError(err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return database.ErrNotFound
		}
		updated, err = get(ctx, tx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a room, failing with ErrHasReservations while any
// reservation still references it. The existence check, the reservation
// count, and the delete run in one transaction so a concurrent reservation
// cannot slip in between the guard and the delete. The store's restrict
// foreign key backstops the same rule.
func (a *Accessor) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		if _, err := get(ctx, tx, id); err != nil {
			return err
		}

		var count int
		row := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE room_id = ?`, id)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("count reservations: %w", database.MapError(err))
		}
		if count > 0 {
			return fmt.Errorf("%w (%d)", ErrHasReservations, count)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete room: %w", database.MapError(err))
		}
		return nil
	})
}
