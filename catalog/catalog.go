// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package catalog holds the dishes served on each calendar date.
// Dish names are opaque strings; nothing here interprets them.
package catalog

import (
	"context"
	"strings"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

type Catalog interface {
	// Menu returns the menu for w. A date with no menu yields empty lists.
	Menu(ctx context.Context, w window.Window) (models.Menu, error)
	SetMenu(ctx context.Context, w window.Window, m models.Menu) (models.Menu, error)
}

// normalize trims dish names, drops blanks and labels the menu with the
// weekday of w. The result never has nil slices.
func normalize(w window.Window, m models.Menu) models.Menu {
	return models.Menu{
		Day:       w.Label(),
		Breakfast: clean(m.Breakfast),
		Lunch:     clean(m.Lunch),
		Snacks:    clean(m.Snacks),
	}
}

func clean(dishes []string) []string {
	out := make([]string, 0, len(dishes))
	for _, d := range dishes {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func empty(w window.Window) models.Menu {
	return normalize(w, models.Menu{})
}
