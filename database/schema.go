package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		building TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start TEXT NOT NULL,
		"end" TEXT NOT NULL,
		days TEXT NOT NULL DEFAULT '["L","M","X","J","V"]'
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id INTEGER NOT NULL,
		time_slot_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		user_id TEXT NOT NULL,
		purpose TEXT NOT NULL,
		"groups" TEXT,
		FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE RESTRICT,
		FOREIGN KEY (time_slot_id) REFERENCES time_slots (id) ON DELETE RESTRICT,
		UNIQUE(room_id, time_slot_id, date)
	)`,
}

type seedRoom struct {
	name     string
	capacity int
	building string
}

type seedSlot struct {
	start, end, days string
}

var sampleRooms = []seedRoom{
	{"Sala 101", 30, "Edificio 1"},
	{"Sala 102", 25, "Edificio 1"},
	{"Sala 103", 40, "Edificio 2"},
	{"Laboratorio A", 20, "Edificio 2"},
	{"Laboratorio B", 20, "Edificio 3"},
}

var sampleSlots = []seedSlot{
	{"08:00", "09:30", `["L","M","X","J","V"]`},
	{"09:45", "11:15", `["L","M","X","J","V"]`},
	{"11:30", "13:00", `["L","M","X","J","V"]`},
	{"14:00", "15:30", `["L","M","X","J"]`},
	{"15:45", "17:15", `["L","M","X"]`},
}

// Init creates the schema and seeds the catalog tables with sample data the
// first time the database is used. Seeding only happens when a table is
// empty, so restarts never duplicate rows.
func Init(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	logger.InfoContext(ctx, "database schema ready")

	var roomCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&roomCount); err != nil {
		return fmt.Errorf("count rooms: %w", err)
	}
	if roomCount == 0 {
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			for _, r := range sampleRooms {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO rooms (name, capacity, building) VALUES (?, ?, ?)`,
					r.name, r.capacity, r.building); err != nil {
					return fmt.Errorf("seed room %q: %w", r.name, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "seeded sample rooms", "count", len(sampleRooms))
	}

	var slotCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_slots`).Scan(&slotCount); err != nil {
		return fmt.Errorf("count time slots: %w", err)
	}
	if slotCount == 0 {
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			for _, s := range sampleSlots {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO time_slots (start, "end", days) VALUES (?, ?, ?)`,
					s.start, s.end, s.days); err != nil {
					return fmt.Errorf("seed time slot %s-%s: %w", s.start, s.end, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "seeded sample time slots", "count", len(sampleSlots))
	}

	return nil
}
