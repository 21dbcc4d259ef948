// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypePgx      = "pgx"
	TypeSQLite   = "sqlite"
	TypeMemory   = "memory"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
	pingTimeout            = 5 * time.Second
)

// Open connects to the database and pings it.
// SQLite is limited to one connection so writers queue instead of failing
// with SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres, TypePgx, TypeSQLite:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(defaultMaxOpenConns)
		conn.SetMaxIdleConns(defaultMaxIdleConns)
		conn.SetConnMaxLifetime(defaultConnMaxLifetime)
		conn.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}
