// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package summary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/store"
	"github.com/danielhkuo/meal-window/testutil"
	"github.com/danielhkuo/meal-window/window"
)

func mustWindow(t *testing.T, s string) window.Window {
	t.Helper()
	w, err := window.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestSummarize_Scenarios(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	agg := NewAggregator(s)
	w := mustWindow(t, "2025-01-02")

	// B: one employee, breakfast and snacks
	if _, err := s.Submit(ctx, "E1", w, models.Preferences{true, false, true}); err != nil {
		t.Fatal(err)
	}
	got, err := agg.Summarize(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	want := models.SummaryResponse{Breakfast: 1, Lunch: 0, Snacks: 1, Total: 1}
	if got.Response() != want {
		t.Fatalf("scenario B: got %+v, want %+v", got.Response(), want)
	}

	// C: resubmission is rejected and the summary does not move
	_, err = s.Submit(ctx, "E1", w, models.Preferences{false, true, false})
	if !errors.Is(err, models.ErrAlreadySubmitted) {
		t.Fatalf("scenario C: error = %v", err)
	}
	got, _ = agg.Summarize(ctx, w)
	if got.Response() != want {
		t.Errorf("scenario C: got %+v, want %+v", got.Response(), want)
	}
}

func TestSummarize_SameWeekdayDifferentDates(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	agg := NewAggregator(s)

	thu1 := mustWindow(t, "2025-01-02")
	thu2 := mustWindow(t, "2025-01-09")
	if thu1.Label() != thu2.Label() {
		t.Fatalf("test setup: labels differ %s %s", thu1.Label(), thu2.Label())
	}

	s.Submit(ctx, "E1", thu1, models.Preferences{true, true, true})
	s.Submit(ctx, "E2", thu1, models.Preferences{true, false, false})
	s.Submit(ctx, "E1", thu2, models.Preferences{false, false, true})

	a, _ := agg.Summarize(ctx, thu1)
	b, _ := agg.Summarize(ctx, thu2)

	if a.Response() != (models.SummaryResponse{Breakfast: 2, Lunch: 1, Snacks: 1, Total: 2}) {
		t.Errorf("first Thursday: %+v", a.Response())
	}
	if b.Response() != (models.SummaryResponse{Breakfast: 0, Lunch: 0, Snacks: 1, Total: 1}) {
		t.Errorf("second Thursday: %+v", b.Response())
	}
}

func TestSummarize_EmptyWindowIsWellFormed(t *testing.T) {
	agg := NewAggregator(store.NewMemory())
	w := mustWindow(t, "2025-05-05")

	got, err := agg.Summarize(context.Background(), w)
	if err != nil {
		t.Fatal(err)
	}
	if got.Window != w {
		t.Errorf("window = %s, want %s", got.Window, w)
	}
	if got.Response() != (models.SummaryResponse{}) {
		t.Errorf("expected all zero counts, got %+v", got.Response())
	}
}

func TestSummarize_CountsMayDifferFromTotal(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	agg := NewAggregator(s)
	w := mustWindow(t, "2025-01-02")

	s.Submit(ctx, "none", w, models.Preferences{false, false, false})
	s.Submit(ctx, "all", w, models.Preferences{true, true, true})

	got, _ := agg.Summarize(ctx, w)
	sum := got.Count(models.Breakfast) + got.Count(models.Lunch) + got.Count(models.Snacks)
	if got.Total != 2 || sum != 3 {
		t.Errorf("total=%d sum=%d, want 2 and 3", got.Total, sum)
	}
}

func TestCount_IgnoresOtherWindows(t *testing.T) {
	w := mustWindow(t, "2025-01-02")
	list := []models.Confirmation{
		{EmployeeID: "E1", Window: w, Preferences: models.Preferences{true, false, false}},
		{EmployeeID: "E2", Window: w.AddDays(7), Preferences: models.Preferences{true, true, true}},
	}
	got := Count(w, list)
	if got.Total != 1 || got.Count(models.Breakfast) != 1 || got.Count(models.Lunch) != 0 {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestSummarize_SQLBackend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	s := store.NewSQL(db)
	agg := NewAggregator(s)
	w := mustWindow(t, "2025-01-02")

	for i := 0; i < 5; i++ {
		prefs := models.Preferences{i%2 == 0, i < 3, i == 4}
		if _, err := s.Submit(ctx, fmt.Sprintf("E%d", i), w, prefs); err != nil {
			t.Fatal(err)
		}
	}

	got, err := agg.Summarize(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	want := models.SummaryResponse{Breakfast: 3, Lunch: 3, Snacks: 1, Total: 5}
	if got.Response() != want {
		t.Errorf("got %+v, want %+v", got.Response(), want)
	}
}

func TestSummarize_ConcurrentWithSubmits(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	agg := NewAggregator(s)
	w := mustWindow(t, "2025-01-02")

	const employees = 50
	var wg sync.WaitGroup
	for i := 0; i < employees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Submit(ctx, fmt.Sprintf("E%d", i), w, models.Preferences{true, true, true})
		}(i)
	}

	// every record is all-true, so a torn read would show unequal counts
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			got, err := agg.Summarize(ctx, w)
			if err != nil {
				t.Error(err)
				return
			}
			if got.Counts[0] != got.Total || got.Counts[1] != got.Total || got.Counts[2] != got.Total {
				t.Errorf("torn summary: %+v", got)
				return
			}
		}
	}()

	wg.Wait()
	<-done

	final, _ := agg.Summarize(ctx, w)
	if final.Total != employees {
		t.Errorf("final total = %d, want %d", final.Total, employees)
	}
}

func TestSummarizeRange(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	agg := NewAggregator(s)

	from := mustWindow(t, "2025-01-30")
	s.Submit(ctx, "E1", from, models.Preferences{true, false, false})
	s.Submit(ctx, "E1", from.AddDays(2), models.Preferences{false, true, false})
	s.Submit(ctx, "E2", from.AddDays(2), models.Preferences{false, true, true})

	got, err := agg.SummarizeRange(ctx, from, from.AddDays(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 days, got %d", len(got))
	}
	for i, s := range got {
		if s.Window != from.AddDays(i) {
			t.Errorf("day %d window = %s", i, s.Window)
		}
	}
	if got[0].Total != 1 || got[1].Total != 0 || got[2].Total != 2 || got[2].Count(models.Lunch) != 2 {
		t.Errorf("unexpected range: %+v", got)
	}
}

func TestSummarizeRange_Invalid(t *testing.T) {
	agg := NewAggregator(store.NewMemory())
	from := mustWindow(t, "2025-01-10")

	if _, err := agg.SummarizeRange(context.Background(), from, from.AddDays(-1)); !errors.Is(err, models.ErrInvalidWindow) {
		t.Errorf("reversed range error = %v", err)
	}
	if _, err := agg.SummarizeRange(context.Background(), from, from.AddDays(MaxRangeDays)); !errors.Is(err, models.ErrInvalidWindow) {
		t.Errorf("oversized range error = %v", err)
	}
}

type countingSource struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSource) List(context.Context, window.Window) ([]models.Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return []models.Confirmation{}, nil
}

func TestSummarizeRange_ExtremeRangeRejectedUpFront(t *testing.T) {
	src := &countingSource{}
	agg := NewAggregator(src)
	from := mustWindow(t, "0001-01-01")
	to := mustWindow(t, "9999-12-31")

	allocs := testing.AllocsPerRun(5, func() {
		if _, err := agg.SummarizeRange(context.Background(), from, to); !errors.Is(err, models.ErrInvalidWindow) {
			t.Errorf("error = %v, want ErrInvalidWindow", err)
		}
	})
	if allocs > 50 {
		t.Errorf("rejecting an extreme range allocated %.0f times per call", allocs)
	}
	if src.calls != 0 {
		t.Errorf("source was read %d times for a rejected range", src.calls)
	}
}

func TestSummarizeRange_MaximumSpan(t *testing.T) {
	src := &countingSource{}
	agg := NewAggregator(src)
	from := mustWindow(t, "2025-01-01")

	got, err := agg.SummarizeRange(context.Background(), from, from.AddDays(MaxRangeDays-1))
	if err != nil {
		t.Fatalf("SummarizeRange() error = %v", err)
	}
	if len(got) != MaxRangeDays || src.calls != MaxRangeDays {
		t.Errorf("got %d days and %d reads, want %d", len(got), src.calls, MaxRangeDays)
	}
}

type failingSource struct{}

func (failingSource) List(context.Context, window.Window) ([]models.Confirmation, error) {
	return nil, fmt.Errorf("%w: boom", models.ErrUpstreamUnavailable)
}

func TestSummarize_PropagatesUpstreamError(t *testing.T) {
	agg := NewAggregator(failingSource{})
	_, err := agg.Summarize(context.Background(), mustWindow(t, "2025-01-02"))
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}
