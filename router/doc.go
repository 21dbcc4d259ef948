// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the meal window API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(deps)

# Endpoints

Public:

	GET /health
	GET /window

Any authenticated caller:

	GET /menu
	GET /menu/{date}

Employees:

	POST /confirmations
	GET  /confirmations/me?date=
	GET  /confirmations/me?from=&to=

Admins:

	PUT /menu/{date}
	GET /summary/{date}
	GET /summary?from=&to=

Tokens are sent as "Authorization: Bearer <token>". POST /confirmations
checks the token inside the handler so that a rejected caller still gets
the {success, error} body. Every route except /health is wrapped with
request logging.
*/
package router
