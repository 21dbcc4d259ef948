// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the meal window API.

# Handler Types

Each handler is a struct built from the shared Deps:

  - WindowHandler: which date is open and when it closes
  - MenuHandler: dishes per date (read by anyone, written by admins)
  - ConfirmationHandler: employee submissions and lookups
  - SummaryHandler: per-date and per-range meal counts for admins

	deps := handlers.Deps{Store: st, Catalog: cat, Aggregator: agg, Resolver: r}
	confirmations := handlers.NewConfirmationHandler(deps)

# Submission Flow

	POST /confirmations  {"date":"2025-01-02","breakfast":true,"lunch":false,"snacks":true}

The body has a fixed shape: all four fields are required and unknown fields
are rejected. The employee is the authenticated caller. The date must be the
window open right now; anything else is InvalidWindow. A second submission
for the same date is AlreadySubmitted and leaves the first one untouched.

After the store commits, an event is published. A publish failure is logged
and does not affect the response.

Submit runs behind middleware.Identify rather than Authenticate, so even an
unauthenticated or admin caller gets {"success":false,"error":"Unauthorized"}.

# History

	GET /confirmations/me?from=2024-12-01&to=2024-12-31

returns the caller's own confirmations in that inclusive range, oldest
first. The range may span at most store.MaxHistoryDays days.

# Errors

Failures carry one of the models.Kind* strings:

	AlreadySubmitted     409
	Unauthorized         401 (no or bad token) / 403 (wrong role)
	InvalidWindow        400
	InvalidRequest       400
	UpstreamUnavailable  503
*/
package handlers
