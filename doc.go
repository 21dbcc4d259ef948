// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the meal window API server.

Employees confirm, once per calendar date, which meals (breakfast, lunch,
snacks) they will eat. Submissions for a date close at the daily cutoff hour
the evening before; the kitchen then reads per-meal counts for that date.

# Starting the Server

	AUTH_SECRET=... DATABASE_URL=file:meals.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -auth-secret dev

Use -t memory to run without a database.

# Configuration

Required settings:

  - AUTH_SECRET (-auth-secret): Secret that signs bearer tokens
  - DATABASE_URL (-d): unless DATABASE_TYPE is memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - CUTOFF_HOUR (-cutoff) and TIME_ZONE (-tz): when the open window advances
  - AMQP_URL (-amqp): publish confirmation events to RabbitMQ
  - TELEGRAM_TOKEN and KITCHEN_CHAT_ID: send the cutoff summary to a chat

See package cliparse for the full list and the config file format.

# Architecture

  - window: the cutoff rule that maps a moment to the open date
  - store: at-most-once confirmation storage (memory or SQL)
  - summary: per-meal counts for a date or a range of dates
  - catalog: menus per date
  - handlers, router, middleware: the HTTP surface
  - events, notify, scheduler: RabbitMQ events, Telegram messages, cron jobs
  - db, cliparse, logging: schema, configuration, logrus setup

See package documentation for each component.
*/
package main
