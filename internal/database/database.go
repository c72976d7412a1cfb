package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the SQLite persistence collaborator. It stores calendar dates as
// YYYY-MM-DD strings and timestamps as full instants; everything read back
// passes through the normalization boundary in normalize.go.
type DB struct {
	*sql.DB
}

func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Immediate transactions serialize writers at BEGIN, so the overlap
	// guard inside CreateReservation always sees committed rows instead of
	// racing another writer to the commit.
	dsn := path + "?_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &DB{DB: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
            id TEXT PRIMARY KEY,
            cabin_id TEXT NOT NULL,
            guest_name TEXT NOT NULL,
            contact_email TEXT NOT NULL DEFAULT '',
            contact_phone TEXT NOT NULL DEFAULT '',
            check_in TEXT NOT NULL,
            check_out TEXT NOT NULL,
            adults INTEGER NOT NULL,
            children INTEGER NOT NULL DEFAULT 0,
            babies INTEGER NOT NULL DEFAULT 0,
            season TEXT NOT NULL,
            total_price INTEGER NOT NULL,
            use_custom_price BOOLEAN NOT NULL DEFAULT 0,
            custom_price INTEGER NOT NULL DEFAULT 0,
            check_in_status TEXT NOT NULL DEFAULT 'pending',
            check_out_status TEXT NOT NULL DEFAULT 'pending',
            actual_check_in DATETIME,
            actual_check_out DATETIME,
            check_in_note TEXT NOT NULL DEFAULT '',
            check_out_note TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id TEXT PRIMARY KEY,
            reservation_id TEXT NOT NULL,
            amount INTEGER NOT NULL,
            date TEXT NOT NULL,
            method TEXT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            recorded_at DATETIME NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id TEXT PRIMARY KEY,
            type TEXT NOT NULL,
            priority TEXT NOT NULL,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            reservation_id TEXT NOT NULL DEFAULT '',
            recipient_id TEXT NOT NULL,
            scheduled_at DATETIME NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            snoozed_until DATETIME,
            resolution_note TEXT NOT NULL DEFAULT '',
            is_active BOOLEAN NOT NULL DEFAULT 1,
            metadata TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_cabin_id ON reservations(cabin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_check_in ON reservations(check_in)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_check_out ON reservations(check_out)`,

		`CREATE INDEX IF NOT EXISTS idx_payments_reservation_id ON payments(reservation_id)`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_reservation_id ON notifications(reservation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_scheduled_at ON notifications(scheduled_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
