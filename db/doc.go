// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open selects a database/sql driver by type:

  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib
  - sqlite: modernc.org/sqlite (pure Go, one connection)

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

The memory type never reaches Open; main wires in-memory stores instead.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - confirmation: one row per (employee_id, window_date)
  - menu: dish lists per window_date

# Indexes

  - confirmation.(employee_id, window_date) (unique)
  - confirmation.window_date
*/
package db
