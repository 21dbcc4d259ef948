// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package summary counts confirmed meal preferences per window.
package summary

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

const (
	// MaxRangeDays bounds SummarizeRange
	MaxRangeDays = 62

	rangeConcurrency = 4
)

// Source is the read side of a confirmation store
type Source interface {
	List(ctx context.Context, w window.Window) ([]models.Confirmation, error)
}

type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Summarize counts, for each meal type, the confirmations for w whose bit
// is set. Total is the number of confirmations, one per employee.
// Only the exact calendar date matches; the weekday plays no part.
func (a *Aggregator) Summarize(ctx context.Context, w window.Window) (models.Summary, error) {
	list, err := a.source.List(ctx, w)
	if err != nil {
		return models.Summary{}, err
	}
	return Count(w, list), nil
}

// Count folds a snapshot of confirmations into a Summary for w.
// Confirmations for any other window are ignored.
func Count(w window.Window, list []models.Confirmation) models.Summary {
	s := models.Summary{Window: w}
	for _, c := range list {
		if c.Window != w {
			continue
		}
		s.Total++
		for _, m := range models.MealTypes {
			if c.Preferences.Wants(m) {
				s.Counts[m]++
			}
		}
	}
	return s
}

// SummarizeRange returns one summary per day in [from, to], in date order
func (a *Aggregator) SummarizeRange(ctx context.Context, from, to window.Window) ([]models.Summary, error) {
	if err := window.CheckRange(from, to, MaxRangeDays); err != nil {
		return nil, err
	}
	days := window.Days(from, to)

	out := make([]models.Summary, len(days))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rangeConcurrency)
	for i, day := range days {
		g.Go(func() error {
			s, err := a.Summarize(ctx, day)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
