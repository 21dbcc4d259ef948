// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

// SQL stores menus in the menu table, one row per date with each
// meal's dishes as a JSON array.
type SQL struct {
	db  *sql.DB
	now func() time.Time
}

var _ Catalog = (*SQL)(nil)

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrUpstreamUnavailable, op, err)
}

func (c *SQL) Menu(ctx context.Context, w window.Window) (models.Menu, error) {
	if w.IsZero() {
		return models.Menu{}, models.ErrInvalidWindow
	}

	var breakfast, lunch, snacks string
	err := c.db.QueryRowContext(ctx, `
		SELECT breakfast, lunch, snacks
		FROM menu
		WHERE window_date = $1
	`, w.String()).Scan(&breakfast, &lunch, &snacks)
	if errors.Is(err, sql.ErrNoRows) {
		return empty(w), nil
	}
	if err != nil {
		return models.Menu{}, upstream("get menu", err)
	}

	var m models.Menu
	for _, col := range []struct {
		raw  string
		dest *[]string
	}{
		{breakfast, &m.Breakfast},
		{lunch, &m.Lunch},
		{snacks, &m.Snacks},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return models.Menu{}, fmt.Errorf("stored menu for %s: %w", w, err)
		}
	}
	return normalize(w, m), nil
}

func (c *SQL) SetMenu(ctx context.Context, w window.Window, m models.Menu) (models.Menu, error) {
	if w.IsZero() {
		return models.Menu{}, models.ErrInvalidWindow
	}

	m = normalize(w, m)
	cols, err := encodeDishes(m)
	if err != nil {
		return models.Menu{}, fmt.Errorf("encode menu for %s: %w", w, err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO menu (window_date, breakfast, lunch, snacks, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (window_date) DO UPDATE SET
			breakfast = excluded.breakfast,
			lunch = excluded.lunch,
			snacks = excluded.snacks,
			updated_at = excluded.updated_at
	`, w.String(), cols[0], cols[1], cols[2], c.now().UTC())
	if err != nil {
		return models.Menu{}, upstream("set menu", err)
	}
	return m, nil
}

// encodeDishes renders breakfast, lunch and snacks as JSON array columns
func encodeDishes(m models.Menu) ([3]string, error) {
	var cols [3]string
	for i, dishes := range [3][]string{m.Breakfast, m.Lunch, m.Snacks} {
		b, err := json.Marshal(dishes)
		if err != nil {
			return cols, err
		}
		cols[i] = string(b)
	}
	return cols, nil
}
