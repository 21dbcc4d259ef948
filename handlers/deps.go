// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/meal-window/catalog"
	"github.com/danielhkuo/meal-window/cliparse"
	"github.com/danielhkuo/meal-window/events"
	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/store"
	"github.com/danielhkuo/meal-window/summary"
	"github.com/danielhkuo/meal-window/window"
)

// Deps is everything the handlers share. It is built once in main.
type Deps struct {
	Store      store.ConfirmationStore
	Catalog    catalog.Catalog
	Aggregator *summary.Aggregator
	Resolver   window.Resolver
	Events     events.Publisher
	Config     cliparse.Config
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) events() events.Publisher {
	if d.Events == nil {
		return events.Nop{}
	}
	return d.Events
}

// windowParam parses a YYYY-MM-DD value, falling back to the open window
// when it is empty.
func (d Deps) windowParam(raw string) (window.Window, error) {
	if raw == "" {
		return d.Resolver.Current(d.now()), nil
	}
	return window.Parse(raw)
}

func statusFor(kind string) int {
	switch kind {
	case models.KindAlreadySubmitted:
		return http.StatusConflict
	case models.KindUnauthorized:
		return http.StatusForbidden
	case models.KindInvalidWindow, models.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

// writeError reports err with its taxonomy kind. Upstream failures hide
// their cause from the client.
func writeError(w http.ResponseWriter, err error) {
	kind := models.Kind(err)
	message := err.Error()
	if kind == models.KindUpstreamUnavailable {
		message = "storage temporarily unavailable"
	}
	middleware.ErrorResponse(w, statusFor(kind), kind, message)
}

func invalidRequest(w http.ResponseWriter, message string) {
	middleware.ErrorResponse(w, http.StatusBadRequest, models.KindInvalidRequest, message)
}
