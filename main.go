// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/meal-window/catalog"
	"github.com/danielhkuo/meal-window/cliparse"
	"github.com/danielhkuo/meal-window/db"
	"github.com/danielhkuo/meal-window/events"
	"github.com/danielhkuo/meal-window/handlers"
	"github.com/danielhkuo/meal-window/logging"
	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/notify"
	"github.com/danielhkuo/meal-window/router"
	"github.com/danielhkuo/meal-window/scheduler"
	"github.com/danielhkuo/meal-window/store"
	"github.com/danielhkuo/meal-window/summary"
	"github.com/danielhkuo/meal-window/window"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		logging.Log.WithError(err).Error("Error parsing flags")
		os.Exit(1)
	}

	logging.Init(cfg.LogLevel, cfg.Environment)
	log := logging.Log

	if err := run(cfg); err != nil {
		log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
}

func run(cfg cliparse.Config) error {
	log := logging.Log

	resolver, err := window.NewResolver(cfg.CutoffHour, cfg.Location)
	if err != nil {
		return err
	}

	// Storage
	var (
		confirmations store.ConfirmationStore
		menus         catalog.Catalog
	)
	if cfg.DatabaseType == db.TypeMemory {
		confirmations = store.NewMemory()
		menus = catalog.NewMemory()
		log.Warn("Using in-memory storage; confirmations are lost on restart")
	} else {
		dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := db.CreateSchema(dbConn); err != nil {
			return err
		}
		log.WithField("type", cfg.DatabaseType).Info("Database schema ready")

		confirmations = store.NewSQL(dbConn)
		menus = catalog.NewSQL(dbConn)
	}

	// Integrations
	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			return err
		}
		publisher = p
		log.WithField("exchange", events.Exchange).Info("Publishing confirmation events")
	}
	defer publisher.Close()

	var notifier notify.Notifier = notify.Log{Entry: logging.WithComponent("notify")}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.KitchenChatID)
		if err != nil {
			return err
		}
		notifier = tg
		log.WithField("chat_id", cfg.KitchenChatID).Info("Kitchen notifications via Telegram")
	}

	aggregator := summary.NewAggregator(confirmations)

	sched := scheduler.New(scheduler.Config{
		Resolver:      resolver,
		RetentionDays: cfg.RetentionDays,
		RetentionSpec: cfg.RetentionCron,
	}, aggregator, confirmations, notifier, logging.WithComponent("scheduler"))
	if err := sched.Start(); err != nil {
		return err
	}

	// Create router
	mux := router.NewRouter(handlers.Deps{
		Store:      confirmations,
		Catalog:    menus,
		Aggregator: aggregator,
		Resolver:   resolver,
		Events:     publisher,
		Config:     cfg,
	})

	server := &http.Server{
		Handler:           middleware.Recovery(middleware.CORS(mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"window": resolver.Current(time.Now()).String(),
			"cutoff": cfg.CutoffHour,
		}).Info("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		sched.Stop(shutdownCtx)
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
