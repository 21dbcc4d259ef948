// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

var (
	ErrNotFound        = errors.New("confirmation not found")
	ErrEmptyEmployeeID = errors.New("employee id is required")
)

// MaxHistoryDays bounds ListByEmployee
const MaxHistoryDays = 62

// ConfirmationStore records at most one Confirmation per (employee, window).
// There is deliberately no update or delete of a single confirmation.
type ConfirmationStore interface {
	// Submit inserts a confirmation or fails with models.ErrAlreadySubmitted,
	// leaving any existing record untouched.
	Submit(ctx context.Context, employeeID string, w window.Window, prefs models.Preferences) (models.Confirmation, error)
	Has(ctx context.Context, employeeID string, w window.Window) (bool, error)
	Get(ctx context.Context, employeeID string, w window.Window) (models.Confirmation, error)
	// List returns a snapshot of every confirmation for w
	List(ctx context.Context, w window.Window) ([]models.Confirmation, error)
	// ListByEmployee returns one employee's confirmations for from..to
	// inclusive, oldest first. The range is at most MaxHistoryDays long.
	ListByEmployee(ctx context.Context, employeeID string, from, to window.Window) ([]models.Confirmation, error)
	// Purge drops all windows strictly before the given one
	Purge(ctx context.Context, before window.Window) (int64, error)
}

func newConfirmation(employeeID string, w window.Window, prefs models.Preferences, now time.Time) models.Confirmation {
	return models.Confirmation{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Window:      w,
		Preferences: prefs,
		SubmittedAt: now.UTC(),
	}
}

func checkKey(employeeID string, w window.Window) error {
	if strings.TrimSpace(employeeID) == "" {
		return ErrEmptyEmployeeID
	}
	if w.IsZero() {
		return models.ErrInvalidWindow
	}
	return nil
}

func checkHistory(employeeID string, from, to window.Window) error {
	if err := checkKey(employeeID, from); err != nil {
		return err
	}
	if to.IsZero() {
		return models.ErrInvalidWindow
	}
	return window.CheckRange(from, to, MaxHistoryDays)
}
