// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Meal Types

MealType is an ordinal enumeration. The ordinal indexes both Preferences
and Summary.Counts, so the order is part of the wire contract:

	Breakfast = 0
	Lunch     = 1
	Snacks    = 2

# Request Types

  - SubmitConfirmationRequest: date, breakfast, lunch, snacks (all required)
  - SetMenuRequest: breakfast, lunch, snacks dish lists

# Response Types

  - SubmitConfirmationResponse: success, error
  - WindowResponse: date, day, cutoff_hour, closes_at
  - MyConfirmationResponse: date, submitted, confirmation, submitted_ago
  - SummaryResponse: breakfast, lunch, snacks, total
  - DailySummaryResponse: date plus SummaryResponse
  - ErrorResponse: error, message

# Domain Types

  - Confirmation: one employee's one-shot preferences for one window
  - Summary: per-meal counts for one window
  - Menu: dishes for one day, display only

# Errors

The error taxonomy is a set of sentinels checked with errors.Is:

	ErrAlreadySubmitted    → "AlreadySubmitted"
	ErrUnauthorized        → "Unauthorized"
	ErrInvalidWindow       → "InvalidWindow"
	ErrInvalidRequest      → "InvalidRequest"
	ErrUpstreamUnavailable → "UpstreamUnavailable"

Kind(err) returns the wire string for any error.
*/
package models
