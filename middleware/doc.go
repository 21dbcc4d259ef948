// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /window", middleware.WithLogging(handler))

Logs request start at debug level and completion (status, duration_ms) at
info level through the shared logrus logger.

# Authentication

Authenticate verifies the bearer token and, optionally, the caller's role:

	employeeOnly := middleware.Authenticate(secret, models.RoleEmployee)
	mux.HandleFunc("POST /confirmations", employeeOnly(h.Submit))

Handlers read the caller with PrincipalFrom(r.Context()). A missing or
invalid token is 401 and a wrong role is 403; both carry the Unauthorized
error kind.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusConflict, models.KindAlreadySubmitted, "message")

ParseJSONBody rejects unknown fields and trailing data, so request bodies
keep a fixed shape.

# CORS and Recovery

CORS reflects the request origin and answers preflight requests. Recovery
converts a handler panic into a 500 response and logs it.
*/
package middleware
