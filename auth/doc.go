// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and verifies bearer tokens that name a caller.

# Tokens

A token binds an identity and a role with HMAC-SHA256:

	token := auth.IssueToken(auth.Principal{ID: "E1", Role: models.RoleEmployee}, secret)
	p, err := auth.ParseToken(token, secret)

The payload is URL-safe base64 of "role:id" and the signature is the
URL-safe base64 HMAC of that payload, both without padding. Since tokens are
deterministic, nothing is stored server side; rotating the secret revokes
every token at once.

# Headers

Handlers receive tokens in the Authorization header:

	Authorization: Bearer <token>

FromHeader returns ErrMissingToken when the header is absent and
ErrInvalidToken for anything else that fails to verify.
*/
package auth
