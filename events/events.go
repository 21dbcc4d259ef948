// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events announces accepted confirmations to other services.
// Events are sent after the store has committed; a failed publish never
// undoes a confirmation.
package events

import (
	"context"
	"time"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

const TypeConfirmationSubmitted = "confirmation.submitted"

type ConfirmationEvent struct {
	Type        string             `json:"type"`
	ID          string             `json:"id"`
	EmployeeID  string             `json:"employee_id"`
	Date        window.Window      `json:"date"`
	Day         string             `json:"day"`
	Preferences models.Preferences `json:"preferences"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

func NewConfirmationEvent(c models.Confirmation) ConfirmationEvent {
	return ConfirmationEvent{
		Type:        TypeConfirmationSubmitted,
		ID:          c.ID,
		EmployeeID:  c.EmployeeID,
		Date:        c.Window,
		Day:         c.Window.Label(),
		Preferences: c.Preferences,
		SubmittedAt: c.SubmittedAt,
	}
}

type Publisher interface {
	PublishConfirmation(ctx context.Context, ev ConfirmationEvent) error
	Close() error
}

// Nop drops every event
type Nop struct{}

func (Nop) PublishConfirmation(context.Context, ConfirmationEvent) error { return nil }
func (Nop) Close() error { return nil }
