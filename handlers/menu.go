// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/danielhkuo/meal-window/logging"
	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/models"
)

type MenuHandler struct {
	deps Deps
}

func NewMenuHandler(deps Deps) *MenuHandler {
	return &MenuHandler{deps: deps}
}

// GetMenu handles GET /menu and GET /menu/{date}.
// Without a date it returns the menu of the open window.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	win, err := h.deps.windowParam(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	menu, err := h.deps.Catalog.Menu(r.Context(), win)
	if err != nil {
		logging.Log.WithError(err).WithField("window", win.String()).Error("failed to load menu")
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, menu)
}

// SetMenu handles PUT /menu/{date} (admin only)
func (h *MenuHandler) SetMenu(w http.ResponseWriter, r *http.Request) {
	win, err := h.deps.windowParam(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.SetMenuRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	menu, err := h.deps.Catalog.SetMenu(r.Context(), win, models.Menu{
		Breakfast: req.Breakfast,
		Lunch:     req.Lunch,
		Snacks:    req.Snacks,
	})
	if err != nil {
		logging.Log.WithError(err).WithField("window", win.String()).Error("failed to save menu")
		writeError(w, err)
		return
	}

	p, _ := middleware.PrincipalFrom(r.Context())
	logging.Log.WithFields(logrus.Fields{
		"window": win.String(),
		"admin":  p.ID,
	}).Info("menu updated")

	middleware.JSONResponse(w, http.StatusOK, menu)
}
