// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/models"
)

type WindowHandler struct {
	deps Deps
}

func NewWindowHandler(deps Deps) *WindowHandler {
	return &WindowHandler{deps: deps}
}

// GetWindow handles GET /window
func (h *WindowHandler) GetWindow(w http.ResponseWriter, r *http.Request) {
	now := h.deps.now()
	current := h.deps.Resolver.Current(now)

	middleware.JSONResponse(w, http.StatusOK, models.WindowResponse{
		Date:       current,
		Day:        current.Label(),
		CutoffHour: h.deps.Resolver.CutoffHour,
		ClosesAt:   h.deps.Resolver.ClosesAt(now),
	})
}
