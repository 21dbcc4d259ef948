// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the canonical text form of a window
const DateLayout = "2006-01-02"

// ErrInvalid reports a malformed or out-of-range window date
var ErrInvalid = errors.New("invalid window")

// Window identifies a submission window by its calendar date.
// The weekday is derived for display and never used for identity.
type Window struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the window for the calendar date of t in t's own location
func Of(t time.Time) Window {
	y, m, d := t.Date()
	return Window{Year: y, Month: m, Day: d}
}

// Resolve returns the window open for submission at now.
// At or after cutoffHour the window skips to the day after tomorrow.
func Resolve(now time.Time, cutoffHour int) Window {
	days := 1
	if now.Hour() >= cutoffHour {
		days = 2
	}
	return Of(now).AddDays(days)
}

// Parse reads a YYYY-MM-DD date. Anything else, including impossible
// dates such as 2025-02-30, is rejected with ErrInvalid.
func Parse(s string) (Window, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Of(t), nil
}

// Time returns midnight UTC of the window's date
func (w Window) Time() time.Time {
	return time.Date(w.Year, w.Month, w.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays moves the window by n calendar days, rolling months and years
func (w Window) AddDays(n int) Window {
	return Of(w.Time().AddDate(0, 0, n))
}

func (w Window) Before(o Window) bool {
	return w.Time().Before(o.Time())
}

func (w Window) IsZero() bool {
	return w == Window{}
}

// Weekday is display-only
func (w Window) Weekday() time.Weekday {
	return w.Time().Weekday()
}

// Label is the human-readable weekday name shown next to a menu
func (w Window) Label() string {
	return w.Weekday().String()
}

func (w Window) String() string {
	return w.Time().Format(DateLayout)
}

func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Window) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// CheckRange rejects a reversed range or one longer than maxDays,
// without walking the days in between.
func CheckRange(from, to Window, maxDays int) error {
	if to.Before(from) {
		return fmt.Errorf("%w: range %s..%s is reversed", ErrInvalid, from, to)
	}
	if from.AddDays(maxDays - 1).Before(to) {
		return fmt.Errorf("%w: range %s..%s exceeds %d days", ErrInvalid, from, to, maxDays)
	}
	return nil
}

// Days lists every window from..to inclusive. It returns nil when to is before from.
func Days(from, to Window) []Window {
	var out []Window
	for w := from; !to.Before(w); w = w.AddDays(1) {
		out = append(out, w)
	}
	return out
}
