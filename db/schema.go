// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The same DDL runs on PostgreSQL and SQLite: dates are stored as
// YYYY-MM-DD text, which orders the same way the calendar does.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Confirmations: one row per employee per window, never updated
CREATE TABLE IF NOT EXISTS confirmation (
    id TEXT PRIMARY KEY,
    employee_id TEXT NOT NULL,
    window_date TEXT NOT NULL,
    breakfast BOOLEAN NOT NULL,
    lunch BOOLEAN NOT NULL,
    snacks BOOLEAN NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    UNIQUE (employee_id, window_date)
);

CREATE INDEX IF NOT EXISTS idx_confirmation_window_date ON confirmation(window_date);

-- Menus: dish lists per calendar date, JSON-encoded arrays
CREATE TABLE IF NOT EXISTS menu (
    window_date TEXT PRIMARY KEY,
    breakfast TEXT NOT NULL DEFAULT '[]',
    lunch TEXT NOT NULL DEFAULT '[]',
    snacks TEXT NOT NULL DEFAULT '[]',
    updated_at TIMESTAMP NOT NULL
);
`
