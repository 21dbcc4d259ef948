// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/meal-window/logging"
	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/models"
	"github.com/danielhkuo/meal-window/window"
)

type SummaryHandler struct {
	deps Deps
}

func NewSummaryHandler(deps Deps) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// GetSummary handles GET /summary/{date}
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	win, err := window.Parse(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	s, err := h.deps.Aggregator.Summarize(r.Context(), win)
	if err != nil {
		logging.Log.WithError(err).WithField("window", win.String()).Error("failed to summarize")
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, s.Response())
}

// GetRange handles GET /summary?from=&to=
func (h *SummaryHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		invalidRequest(w, "from and to are required")
		return
	}

	from, err := window.Parse(q.Get("from"))
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := window.Parse(q.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}

	summaries, err := h.deps.Aggregator.SummarizeRange(r.Context(), from, to)
	if err != nil {
		if models.Kind(err) == models.KindUpstreamUnavailable {
			logging.Log.WithError(err).Error("failed to summarize range")
		}
		writeError(w, err)
		return
	}

	resp := make([]models.DailySummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, models.DailySummaryResponse{
			Date:            s.Window,
			SummaryResponse: s.Response(),
		})
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
