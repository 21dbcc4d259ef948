// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scheduler runs the daily jobs: the cutoff summary sent to the
// kitchen and the retention purge.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/notify"
	"github.com/danielhkuo/meal-window/window"
)

type Summarizer interface {
	Summarize(ctx context.Context, w window.Window) (models.Summary, error)
}

type Purger interface {
	Purge(ctx context.Context, before window.Window) (int64, error)
}

type Config struct {
	Resolver window.Resolver
	// RetentionDays of confirmations are kept; 0 disables the purge
	RetentionDays int
	RetentionSpec string
	JobTimeout    time.Duration
}

type Scheduler struct {
	cfg        Config
	cron       *cron.Cron
	summarizer Summarizer
	purger     Purger
	notifier   notify.Notifier
	log        *logrus.Entry
	now        func() time.Time
}

func New(cfg Config, summarizer Summarizer, purger Purger, notifier notify.Notifier, log *logrus.Entry) *Scheduler {
	if cfg.JobTimeout == 0 {
		cfg.JobTimeout = time.Minute
	}
	if cfg.Resolver.Location == nil {
		cfg.Resolver.Location = time.Local
	}
	cl := cron.PrintfLogger(log)
	return &Scheduler{
		cfg: cfg,
		cron: cron.New(
			cron.WithLocation(cfg.Resolver.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		summarizer: summarizer,
		purger:     purger,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

// CutoffSpec fires at the top of the cutoff hour, when the open window
// advances and the previous one locks.
func (s *Scheduler) CutoffSpec() string {
	return fmt.Sprintf("0 %d * * *", s.cfg.Resolver.CutoffHour)
}

// Start registers the jobs and starts the cron engine in the background
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.CutoffSpec(), s.job("cutoff", s.RunCutoff)); err != nil {
		return fmt.Errorf("failed to add cutoff job: %w", err)
	}

	if s.cfg.RetentionDays > 0 {
		purge := func(ctx context.Context) error {
			_, err := s.RunRetention(ctx)
			return err
		}
		if _, err := s.cron.AddFunc(s.cfg.RetentionSpec, s.job("retention", purge)); err != nil {
			return fmt.Errorf("failed to add retention job: %w", err)
		}
	}

	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs or until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) job(name string, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
		defer cancel()

		start := s.now()
		if err := run(ctx); err != nil {
			s.log.WithError(err).WithField("job", name).Error("Job failed")
			return
		}
		s.log.WithFields(logrus.Fields{
			"job":         name,
			"duration_ms": s.now().Sub(start).Milliseconds(),
		}).Debug("Job finished")
	}
}

// RunCutoff summarizes the window that has just locked and sends it
// to the kitchen.
func (s *Scheduler) RunCutoff(ctx context.Context) error {
	locked := s.cfg.Resolver.Locked(s.now())

	sum, err := s.summarizer.Summarize(ctx, locked)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", locked, err)
	}
	if err := s.notifier.NotifySummary(ctx, sum); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"window": locked.String(),
		"total":  sum.Total,
	}).Info("Cutoff summary sent")
	return nil
}

// RetentionBoundary is the earliest window the purge keeps
func (s *Scheduler) RetentionBoundary() window.Window {
	today := window.Of(s.now().In(s.cfg.Resolver.Location))
	return today.AddDays(-s.cfg.RetentionDays)
}

func (s *Scheduler) RunRetention(ctx context.Context) (int64, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}

	before := s.RetentionBoundary()
	n, err := s.purger.Purge(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge before %s: %w", before, err)
	}

	s.log.WithFields(logrus.Fields{
		"before":  before.String(),
		"removed": n,
	}).Info("Old confirmations purged")
	return n, nil
}
