// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/meal-window/handlers"
	"github.com/danielhkuo/meal-window/middleware"
	"github.com/danielhkuo/meal-window/models"
)

func NewRouter(deps handlers.Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	windowHandler := handlers.NewWindowHandler(deps)
	menuHandler := handlers.NewMenuHandler(deps)
	confirmationHandler := handlers.NewConfirmationHandler(deps)
	summaryHandler := handlers.NewSummaryHandler(deps)

	secret := deps.Config.AuthSecret
	anyone := middleware.Authenticate(secret)
	employee := middleware.Authenticate(secret, models.RoleEmployee)
	admin := middleware.Authenticate(secret, models.RoleAdmin)
	identified := middleware.Identify(secret)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Window (public)
	mux.HandleFunc("GET /window", middleware.WithLogging(windowHandler.GetWindow))

	// Menus
	mux.HandleFunc("GET /menu", middleware.WithLogging(anyone(menuHandler.GetMenu)))
	mux.HandleFunc("GET /menu/{date}", middleware.WithLogging(anyone(menuHandler.GetMenu)))
	mux.HandleFunc("PUT /menu/{date}", middleware.WithLogging(admin(menuHandler.SetMenu)))

	// Confirmations (employees)
	mux.HandleFunc("POST /confirmations", middleware.WithLogging(identified(confirmationHandler.Submit)))
	mux.HandleFunc("GET /confirmations/me", middleware.WithLogging(employee(confirmationHandler.GetMine)))

	// Summaries (admins)
	mux.HandleFunc("GET /summary", middleware.WithLogging(admin(summaryHandler.GetRange)))
	mux.HandleFunc("GET /summary/{date}", middleware.WithLogging(admin(summaryHandler.GetSummary)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", middleware.WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("meal-window API v1"))
	}))

	return mux
}
