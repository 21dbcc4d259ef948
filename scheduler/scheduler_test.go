// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/store"
	"github.com/danielhkuo/meal-window/summary"
	"github.com/danielhkuo/meal-window/testutil"
	"github.com/danielhkuo/meal-window/window"
)

type recordingNotifier struct {
	sent []models.Summary
	err  error
}

func (n *recordingNotifier) NotifySummary(_ context.Context, s models.Summary) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, s)
	return nil
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestScheduler(t *testing.T, now time.Time, retention int) (*Scheduler, *store.Memory, *recordingNotifier) {
	t.Helper()
	r, err := window.NewResolver(21, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemory()
	n := &recordingNotifier{}
	s := New(Config{Resolver: r, RetentionDays: retention, RetentionSpec: "30 3 * * *"},
		summary.NewAggregator(st), st, n, quietLog())
	s.now = testutil.FixedClock(now)
	return s, st, n
}

func TestRunCutoff_SummarizesLockedWindow(t *testing.T) {
	// at 21:00 on Jan 1 the Jan 2 window has just locked
	now := time.Date(2025, 1, 1, 21, 0, 0, 0, time.UTC)
	s, st, n := newTestScheduler(t, now, 30)

	locked, _ := window.Parse("2025-01-02")
	ctx := context.Background()
	st.Submit(ctx, "E1", locked, models.Preferences{true, false, true})
	st.Submit(ctx, "E2", locked, models.Preferences{true, true, false})
	st.Submit(ctx, "E3", locked.AddDays(1), models.Preferences{true, true, true})

	if err := s.RunCutoff(ctx); err != nil {
		t.Fatalf("RunCutoff() error = %v", err)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(n.sent))
	}

	got := n.sent[0]
	if got.Window != locked {
		t.Errorf("window = %s, want %s", got.Window, locked)
	}
	want := models.SummaryResponse{Breakfast: 2, Lunch: 1, Snacks: 1, Total: 2}
	if got.Response() != want {
		t.Errorf("summary = %+v, want %+v", got.Response(), want)
	}
}

func TestRunCutoff_NotifierError(t *testing.T) {
	s, _, n := newTestScheduler(t, time.Date(2025, 1, 1, 21, 0, 0, 0, time.UTC), 30)
	n.err = errors.New("telegram down")

	if err := s.RunCutoff(context.Background()); err == nil {
		t.Error("expected error from notifier")
	}
}

func TestRunRetention(t *testing.T) {
	now := time.Date(2025, 3, 1, 3, 30, 0, 0, time.UTC)
	s, st, _ := newTestScheduler(t, now, 30)
	ctx := context.Background()

	boundary := s.RetentionBoundary()
	if boundary.String() != "2025-01-30" {
		t.Fatalf("RetentionBoundary() = %s, want 2025-01-30", boundary)
	}

	st.Submit(ctx, "E1", boundary.AddDays(-1), models.Preferences{true, false, false})
	st.Submit(ctx, "E1", boundary, models.Preferences{true, false, false})

	n, err := s.RunRetention(ctx)
	if err != nil {
		t.Fatalf("RunRetention() error = %v", err)
	}
	if n != 1 {
		t.Errorf("removed %d, want 1", n)
	}
	if has, _ := st.Has(ctx, "E1", boundary); !has {
		t.Error("boundary window must be kept")
	}
}

func TestRunRetention_Disabled(t *testing.T) {
	s, st, _ := newTestScheduler(t, time.Date(2025, 3, 1, 3, 30, 0, 0, time.UTC), 0)
	ctx := context.Background()
	old, _ := window.Parse("2020-01-01")
	st.Submit(ctx, "E1", old, models.Preferences{})

	n, err := s.RunRetention(ctx)
	if err != nil || n != 0 {
		t.Errorf("RunRetention() = %d, %v; want 0, nil", n, err)
	}
	if has, _ := st.Has(ctx, "E1", old); !has {
		t.Error("nothing should be purged when retention is disabled")
	}
}

func TestStart_RegistersJobs(t *testing.T) {
	tests := []struct {
		name      string
		retention int
		wantJobs  int
	}{
		{"with retention", 30, 2},
		{"without retention", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestScheduler(t, time.Now(), tt.retention)
			if err := s.Start(); err != nil {
				t.Fatal(err)
			}
			defer s.Stop(context.Background())

			if got := len(s.cron.Entries()); got != tt.wantJobs {
				t.Errorf("registered %d jobs, want %d", got, tt.wantJobs)
			}
		})
	}
}

func TestStart_BadRetentionSpec(t *testing.T) {
	s, _, _ := newTestScheduler(t, time.Now(), 30)
	s.cfg.RetentionSpec = "whenever"

	if err := s.Start(); err == nil {
		s.Stop(context.Background())
		t.Error("expected error for bad cron spec")
	}
}

func TestCutoffSpec(t *testing.T) {
	r, _ := window.NewResolver(7, time.UTC)
	s := New(Config{Resolver: r}, nil, nil, nil, quietLog())
	if got := s.CutoffSpec(); got != "0 7 * * *" {
		t.Errorf("CutoffSpec() = %q", got)
	}
}
