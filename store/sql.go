// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

// SQL stores confirmations in the confirmation table created by db.CreateSchema.
// The UNIQUE (employee_id, window_date) constraint is the single guard for
// at-most-once; Submit is one INSERT statement so a failure leaves no row.
type SQL struct {
	db  *sql.DB
	now func() time.Time
}

var _ ConfirmationStore = (*SQL)(nil)

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrUpstreamUnavailable, op, err)
}

func (s *SQL) Submit(ctx context.Context, employeeID string, w window.Window, prefs models.Preferences) (models.Confirmation, error) {
	if err := checkKey(employeeID, w); err != nil {
		return models.Confirmation{}, err
	}

	c := newConfirmation(employeeID, w, prefs, s.now())
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO confirmation (id, employee_id, window_date, breakfast, lunch, snacks, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, window_date) DO NOTHING
	`, c.ID, c.EmployeeID, c.Window.String(),
		prefs[models.Breakfast], prefs[models.Lunch], prefs[models.Snacks], c.SubmittedAt)
	if err != nil {
		return models.Confirmation{}, upstream("insert confirmation", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Confirmation{}, upstream("insert confirmation", err)
	}
	if n == 0 {
		return models.Confirmation{}, models.ErrAlreadySubmitted
	}
	return c, nil
}

func (s *SQL) Has(ctx context.Context, employeeID string, w window.Window) (bool, error) {
	if err := checkKey(employeeID, w); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM confirmation
			WHERE employee_id = $1 AND window_date = $2
		)
	`, employeeID, w.String()).Scan(&exists)
	if err != nil {
		return false, upstream("check confirmation", err)
	}
	return exists, nil
}

func (s *SQL) Get(ctx context.Context, employeeID string, w window.Window) (models.Confirmation, error) {
	if err := checkKey(employeeID, w); err != nil {
		return models.Confirmation{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, window_date, breakfast, lunch, snacks, submitted_at
		FROM confirmation
		WHERE employee_id = $1 AND window_date = $2
	`, employeeID, w.String())

	c, err := scanConfirmation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Confirmation{}, ErrNotFound
	}
	if err != nil {
		return models.Confirmation{}, upstream("get confirmation", err)
	}
	return c, nil
}

// List reads the window in a single statement, which the database
// serves from one consistent snapshot.
func (s *SQL) List(ctx context.Context, w window.Window) ([]models.Confirmation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, window_date, breakfast, lunch, snacks, submitted_at
		FROM confirmation
		WHERE window_date = $1
		ORDER BY submitted_at, employee_id
	`, w.String())
	if err != nil {
		return nil, upstream("list confirmations", err)
	}
	defer rows.Close()

	out := []models.Confirmation{}
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, upstream("scan confirmation", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("list confirmations", err)
	}
	return out, nil
}

// ListByEmployee relies on YYYY-MM-DD text ordering matching date order
func (s *SQL) ListByEmployee(ctx context.Context, employeeID string, from, to window.Window) ([]models.Confirmation, error) {
	if err := checkHistory(employeeID, from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, window_date, breakfast, lunch, snacks, submitted_at
		FROM confirmation
		WHERE employee_id = $1 AND window_date BETWEEN $2 AND $3
		ORDER BY window_date
	`, employeeID, from.String(), to.String())
	if err != nil {
		return nil, upstream("list employee confirmations", err)
	}
	defer rows.Close()

	out := []models.Confirmation{}
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, upstream("scan confirmation", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("list employee confirmations", err)
	}
	return out, nil
}

func (s *SQL) Purge(ctx context.Context, before window.Window) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM confirmation WHERE window_date < $1
	`, before.String())
	if err != nil {
		return 0, upstream("purge confirmations", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, upstream("purge confirmations", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfirmation(row scanner) (models.Confirmation, error) {
	var (
		c    models.Confirmation
		date string
	)
	err := row.Scan(&c.ID, &c.EmployeeID, &date,
		&c.Preferences[models.Breakfast], &c.Preferences[models.Lunch], &c.Preferences[models.Snacks],
		&c.SubmittedAt)
	if err != nil {
		return models.Confirmation{}, err
	}
	c.Window, err = window.Parse(date)
	if err != nil {
		return models.Confirmation{}, fmt.Errorf("stored window_date: %w", err)
	}
	return c, nil
}
