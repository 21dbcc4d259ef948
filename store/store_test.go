// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/testutil"
	"github.com/danielhkuo/meal-window/window"
)

// backends runs fn once per store implementation
func backends(t *testing.T, fn func(t *testing.T, s ConfirmationStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer db.Close()
		fn(t, NewSQL(db))
	})
}

func mustWindow(t *testing.T, s string) window.Window {
	t.Helper()
	w, err := window.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestSubmitThenHas(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		w := mustWindow(t, "2025-01-02")

		has, err := s.Has(ctx, "E1", w)
		if err != nil {
			t.Fatalf("Has() error = %v", err)
		}
		if has {
			t.Fatal("expected no confirmation before submit")
		}

		c, err := s.Submit(ctx, "E1", w, models.Preferences{true, false, true})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if c.ID == "" || c.SubmittedAt.IsZero() {
			t.Errorf("expected server-assigned id and timestamp, got %+v", c)
		}

		has, err = s.Has(ctx, "E1", w)
		if err != nil {
			t.Fatalf("Has() error = %v", err)
		}
		if !has {
			t.Error("expected Has() to be true after submit")
		}

		// other employee, other window unaffected
		if has, _ := s.Has(ctx, "E2", w); has {
			t.Error("E2 should not have a confirmation")
		}
		if has, _ := s.Has(ctx, "E1", w.AddDays(7)); has {
			t.Error("E1 should not have a confirmation a week later")
		}
	})
}

func TestSubmitDuplicateRejected(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		w := mustWindow(t, "2025-01-02")
		first := models.Preferences{true, false, true}

		if _, err := s.Submit(ctx, "E1", w, first); err != nil {
			t.Fatalf("first Submit() error = %v", err)
		}

		_, err := s.Submit(ctx, "E1", w, models.Preferences{false, true, false})
		if !errors.Is(err, models.ErrAlreadySubmitted) {
			t.Fatalf("second Submit() error = %v, want ErrAlreadySubmitted", err)
		}

		got, err := s.Get(ctx, "E1", w)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Preferences != first {
			t.Errorf("stored preferences = %v, want %v", got.Preferences, first)
		}

		list, _ := s.List(ctx, w)
		if len(list) != 1 {
			t.Errorf("expected 1 confirmation, got %d", len(list))
		}
	})
}

func TestGetMissing(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		_, err := s.Get(context.Background(), "nobody", mustWindow(t, "2025-01-02"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSubmitRejectsBadKey(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		if _, err := s.Submit(ctx, "  ", mustWindow(t, "2025-01-02"), models.Preferences{}); !errors.Is(err, ErrEmptyEmployeeID) {
			t.Errorf("empty employee: error = %v", err)
		}
		if _, err := s.Submit(ctx, "E1", window.Window{}, models.Preferences{}); !errors.Is(err, models.ErrInvalidWindow) {
			t.Errorf("zero window: error = %v", err)
		}
	})
}

func TestListIsolatesWindows(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		thu1 := mustWindow(t, "2025-01-02")
		thu2 := mustWindow(t, "2025-01-09")

		s.Submit(ctx, "E1", thu1, models.Preferences{true, true, true})
		s.Submit(ctx, "E2", thu1, models.Preferences{false, true, false})
		s.Submit(ctx, "E1", thu2, models.Preferences{false, false, true})

		a, err := s.List(ctx, thu1)
		if err != nil {
			t.Fatal(err)
		}
		b, err := s.List(ctx, thu2)
		if err != nil {
			t.Fatal(err)
		}
		if len(a) != 2 || len(b) != 1 {
			t.Fatalf("got %d and %d confirmations, want 2 and 1", len(a), len(b))
		}
		for _, c := range a {
			if c.Window != thu1 {
				t.Errorf("confirmation for %s leaked into %s", c.Window, thu1)
			}
		}

		empty, err := s.List(ctx, mustWindow(t, "2030-01-01"))
		if err != nil {
			t.Fatal(err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("expected empty non-nil list, got %v", empty)
		}
	})
}

func TestListByEmployee(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		jan2 := mustWindow(t, "2025-01-02")
		jan3 := mustWindow(t, "2025-01-03")
		jan9 := mustWindow(t, "2025-01-09")

		s.Submit(ctx, "E1", jan9, models.Preferences{false, false, true})
		s.Submit(ctx, "E1", jan2, models.Preferences{true, false, false})
		s.Submit(ctx, "E2", jan3, models.Preferences{true, true, true})
		s.Submit(ctx, "E1", mustWindow(t, "2025-02-01"), models.Preferences{true, true, false})

		got, err := s.ListByEmployee(ctx, "E1", jan2, jan9)
		if err != nil {
			t.Fatalf("ListByEmployee() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 confirmations, got %d: %+v", len(got), got)
		}
		if got[0].Window != jan2 || got[1].Window != jan9 {
			t.Errorf("expected oldest first, got %s then %s", got[0].Window, got[1].Window)
		}
		for _, c := range got {
			if c.EmployeeID != "E1" {
				t.Errorf("confirmation of %s leaked into E1's history", c.EmployeeID)
			}
		}
		if got[1].Preferences != (models.Preferences{false, false, true}) {
			t.Errorf("preferences = %v", got[1].Preferences)
		}

		// bounds are inclusive
		single, err := s.ListByEmployee(ctx, "E1", jan9, jan9)
		if err != nil || len(single) != 1 {
			t.Errorf("single-day range: %d confirmations, error = %v", len(single), err)
		}

		none, err := s.ListByEmployee(ctx, "E3", jan2, jan9)
		if err != nil {
			t.Fatal(err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("expected empty non-nil list, got %v", none)
		}
	})
}

func TestListByEmployeeRejectsBadRange(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		from := mustWindow(t, "2025-01-10")

		tests := []struct {
			name string
			id   string
			from window.Window
			to   window.Window
			want error
		}{
			{"reversed", "E1", from, from.AddDays(-1), models.ErrInvalidWindow},
			{"too long", "E1", from, from.AddDays(MaxHistoryDays), models.ErrInvalidWindow},
			{"whole calendar", "E1", mustWindow(t, "0001-01-01"), mustWindow(t, "9999-12-31"), models.ErrInvalidWindow},
			{"zero end", "E1", from, window.Window{}, models.ErrInvalidWindow},
			{"blank employee", " ", from, from, ErrEmptyEmployeeID},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := s.ListByEmployee(ctx, tt.id, tt.from, tt.to); !errors.Is(err, tt.want) {
					t.Errorf("error = %v, want %v", err, tt.want)
				}
			})
		}

		if _, err := s.ListByEmployee(ctx, "E1", from, from.AddDays(MaxHistoryDays-1)); err != nil {
			t.Errorf("maximum range rejected: %v", err)
		}
	})
}

func TestConcurrentSameKeyExactlyOneWins(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		w := mustWindow(t, "2025-01-02")

		const attempts = 20
		var successes, duplicates atomic.Int32
		var wg sync.WaitGroup

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				prefs := models.Preferences{i%2 == 0, i%3 == 0, true}
				_, err := s.Submit(ctx, "E1", w, prefs)
				switch {
				case err == nil:
					successes.Add(1)
				case errors.Is(err, models.ErrAlreadySubmitted):
					duplicates.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		if successes.Load() != 1 {
			t.Errorf("expected exactly 1 success, got %d", successes.Load())
		}
		if duplicates.Load() != attempts-1 {
			t.Errorf("expected %d AlreadySubmitted, got %d", attempts-1, duplicates.Load())
		}

		list, _ := s.List(ctx, w)
		if len(list) != 1 {
			t.Errorf("expected 1 stored confirmation, got %d", len(list))
		}
	})
}

func TestConcurrentDifferentKeysAllSucceed(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		w := mustWindow(t, "2025-01-02")

		const employees = 25
		var wg sync.WaitGroup
		errs := make(chan error, employees)

		for i := 0; i < employees; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := s.Submit(ctx, fmt.Sprintf("E%d", i), w, models.Preferences{true, false, false}); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			t.Errorf("unexpected error: %v", err)
		}

		list, _ := s.List(ctx, w)
		if len(list) != employees {
			t.Errorf("expected %d confirmations, got %d", employees, len(list))
		}
	})
}

func TestPurge(t *testing.T) {
	backends(t, func(t *testing.T, s ConfirmationStore) {
		ctx := context.Background()
		old := mustWindow(t, "2025-01-02")
		keep := mustWindow(t, "2025-01-10")

		s.Submit(ctx, "E1", old, models.Preferences{true, false, false})
		s.Submit(ctx, "E2", old, models.Preferences{true, false, false})
		s.Submit(ctx, "E1", keep, models.Preferences{true, false, false})

		n, err := s.Purge(ctx, keep)
		if err != nil {
			t.Fatalf("Purge() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Purge() removed %d, want 2", n)
		}

		if has, _ := s.Has(ctx, "E1", old); has {
			t.Error("old window should be purged")
		}
		if has, _ := s.Has(ctx, "E1", keep); !has {
			t.Error("window on the boundary must be kept")
		}
	})
}

func TestSQL_ClosedDatabaseIsUpstreamUnavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := NewSQL(db)
	db.Close()

	_, err := s.Submit(context.Background(), "E1", mustWindow(t, "2025-01-02"), models.Preferences{})
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("Submit() on closed db error = %v, want ErrUpstreamUnavailable", err)
	}
	if _, err := s.List(context.Background(), mustWindow(t, "2025-01-02")); !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("List() on closed db error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestSQL_CancelledContextLeavesNoRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	s := NewSQL(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := mustWindow(t, "2025-01-02")
	_, err := s.Submit(ctx, "E1", w, models.Preferences{true, true, true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit() error = %v, want context.Canceled", err)
	}
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("Submit() error = %v, want ErrUpstreamUnavailable", err)
	}

	has, err := s.Has(context.Background(), "E1", w)
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("cancelled submit must not leave a confirmation")
	}
}
