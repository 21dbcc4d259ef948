// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify tells the kitchen how many meals to prepare once a
// window has closed.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/danielhkuo/meal-window/models"
)

type Notifier interface {
	NotifySummary(ctx context.Context, s models.Summary) error
}

// FormatSummary renders s as a short plain-text message
func FormatSummary(s models.Summary) string {
	var b strings.Builder
	w := s.Window
	fmt.Fprintf(&b, "Meal counts for %s, %s %s %d\n",
		w.Label(), w.Month.String(), humanize.Ordinal(w.Day), w.Year)
	for _, m := range models.MealTypes {
		name := m.String()
		fmt.Fprintf(&b, "%s%s: %s\n", strings.ToUpper(name[:1]), name[1:], humanize.Comma(int64(s.Count(m))))
	}
	fmt.Fprintf(&b, "Confirmations: %s", humanize.Comma(int64(s.Total)))
	return b.String()
}

// Log writes summaries to a logger. It is the fallback when no chat is
// configured.
type Log struct {
	Entry *logrus.Entry
}

func (n Log) NotifySummary(_ context.Context, s models.Summary) error {
	n.Entry.WithFields(logrus.Fields{
		"window":    s.Window.String(),
		"breakfast": s.Count(models.Breakfast),
		"lunch":     s.Count(models.Lunch),
		"snacks":    s.Count(models.Snacks),
		"total":     s.Total,
	}).Info("window closed")
	return nil
}
