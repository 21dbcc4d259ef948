// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/danielhkuo/meal-window/events"
	"github.com/danielhkuo/meal-window/logging"
	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/store"
	"github.com/danielhkuo/meal-window/window"
)

const publishTimeout = 5 * time.Second

type ConfirmationHandler struct {
	deps Deps
}

func NewConfirmationHandler(deps Deps) *ConfirmationHandler {
	return &ConfirmationHandler{deps: deps}
}

func submitFailure(w http.ResponseWriter, err error) {
	kind := models.Kind(err)
	writeSubmitResponse(w, statusFor(kind), kind)
}

func writeSubmitResponse(w http.ResponseWriter, status int, kind string) {
	middleware.JSONResponse(w, status, models.SubmitConfirmationResponse{
		Success: false,
		Error:   kind,
	})
}

// decodeSubmission enforces the fixed shape: every field present, nothing extra
func decodeSubmission(r *http.Request) (string, models.Preferences, error) {
	var req models.SubmitConfirmationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		return "", models.Preferences{}, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}
	if req.Date == "" || req.Breakfast == nil || req.Lunch == nil || req.Snacks == nil {
		return "", models.Preferences{}, fmt.Errorf("%w: date, breakfast, lunch and snacks are required", models.ErrInvalidRequest)
	}
	return req.Date, models.Preferences{*req.Breakfast, *req.Lunch, *req.Snacks}, nil
}

// Submit handles POST /confirmations (employee only).
// The employee is always the authenticated caller, and the date must be
// the window currently open for submission. It expects Identify in front of
// it so that auth failures keep the {success, error} body.
func (h *ConfirmationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeSubmitResponse(w, http.StatusUnauthorized, models.KindUnauthorized)
		return
	}
	if !p.IsEmployee() {
		submitFailure(w, models.ErrUnauthorized)
		return
	}

	date, prefs, err := decodeSubmission(r)
	if err != nil {
		submitFailure(w, err)
		return
	}

	win, err := window.Parse(date)
	if err != nil {
		submitFailure(w, err)
		return
	}
	if open := h.deps.Resolver.Current(h.deps.now()); win != open {
		submitFailure(w, fmt.Errorf("%w: %s is not open, submissions go to %s", models.ErrInvalidWindow, win, open))
		return
	}

	c, err := h.deps.Store.Submit(r.Context(), p.ID, win, prefs)
	if err != nil {
		entry := logging.Log.WithFields(logrus.Fields{
			"employee_id": p.ID,
			"window":      win.String(),
		})
		if errors.Is(err, models.ErrAlreadySubmitted) {
			entry.Info("duplicate confirmation rejected")
		} else {
			entry.WithError(err).Error("failed to store confirmation")
		}
		submitFailure(w, err)
		return
	}

	logging.Log.WithFields(logrus.Fields{
		"employee_id": p.ID,
		"window":      win.String(),
		"id":          c.ID,
	}).Info("confirmation accepted")

	h.publish(r.Context(), c)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitConfirmationResponse{Success: true})
}

// publish runs after the store has committed; a failure is only logged
func (h *ConfirmationHandler) publish(parent context.Context, c models.Confirmation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), publishTimeout)
	defer cancel()

	if err := h.deps.events().PublishConfirmation(ctx, events.NewConfirmationEvent(c)); err != nil {
		logging.Log.WithError(err).WithField("id", c.ID).Warn("failed to publish confirmation event")
	}
}

// GetMine handles GET /confirmations/me?date= and, with from and to,
// the caller's history over a date range.
func (h *ConfirmationHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || !p.IsEmployee() {
		writeError(w, models.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	if q.Has("from") || q.Has("to") {
		if q.Has("date") {
			invalidRequest(w, "use either date or from and to")
			return
		}
		h.getHistory(w, r, p.ID)
		return
	}

	win, err := h.deps.windowParam(q.Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := models.MyConfirmationResponse{Date: win}

	c, err := h.deps.Store.Get(r.Context(), p.ID, win)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		logging.Log.WithError(err).WithField("employee_id", p.ID).Error("failed to load confirmation")
		writeError(w, err)
		return
	default:
		resp.Submitted = true
		resp.Confirmation = &c
		resp.SubmittedAgo = humanize.RelTime(c.SubmittedAt, h.deps.now(), "ago", "from now")
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *ConfirmationHandler) getHistory(w http.ResponseWriter, r *http.Request, employeeID string) {
	fromRaw, toRaw := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromRaw == "" || toRaw == "" {
		invalidRequest(w, "from and to are both required")
		return
	}
	from, err := window.Parse(fromRaw)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := window.Parse(toRaw)
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.deps.Store.ListByEmployee(r.Context(), employeeID, from, to)
	if err != nil {
		if models.Kind(err) == models.KindUpstreamUnavailable {
			logging.Log.WithError(err).WithField("employee_id", employeeID).Error("failed to load confirmation history")
		}
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyHistoryResponse{
		From:          from,
		To:            to,
		Confirmations: list,
	})
}
