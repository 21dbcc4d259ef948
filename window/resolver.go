// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"fmt"
	"time"
)

// DefaultCutoffHour is 9 PM
const DefaultCutoffHour = 21

// Resolver binds the cutoff rule to the deployment's time zone.
// It is built once at startup and never changed.
type Resolver struct {
	CutoffHour int
	Location   *time.Location
}

func NewResolver(cutoffHour int, loc *time.Location) (Resolver, error) {
	if cutoffHour < 0 || cutoffHour > 23 {
		return Resolver{}, fmt.Errorf("cutoff hour %d out of range [0,23]", cutoffHour)
	}
	if loc == nil {
		loc = time.Local
	}
	return Resolver{CutoffHour: cutoffHour, Location: loc}, nil
}

func (r Resolver) in(now time.Time) time.Time {
	if r.Location == nil {
		return now
	}
	return now.In(r.Location)
}

// Current returns the window open for submission at now
func (r Resolver) Current(now time.Time) Window {
	return Resolve(r.in(now), r.CutoffHour)
}

// Locked returns the window that most recently stopped accepting submissions
func (r Resolver) Locked(now time.Time) Window {
	return r.Current(now).AddDays(-1)
}

// ClosesAt returns the next cutoff instant, when Current will move on
func (r Resolver) ClosesAt(now time.Time) time.Time {
	n := r.in(now)
	closes := time.Date(n.Year(), n.Month(), n.Day(), r.CutoffHour, 0, 0, 0, n.Location())
	if n.Hour() >= r.CutoffHour {
		closes = closes.AddDate(0, 0, 1)
	}
	return closes
}

// IsOpen reports whether w is the window currently accepting submissions
func (r Resolver) IsOpen(w Window, now time.Time) bool {
	return w == r.Current(now)
}
