// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/danielhkuo/meal-window/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing bearer token")
)

// Principal is the authenticated caller. The employee ID always comes from
// here, never from a request body.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

func (p Principal) IsEmployee() bool {
	return p.Role == models.RoleEmployee
}

// sign returns the URL-safe, unpadded HMAC-SHA256 of payload
func sign(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

func encode(s string) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(s)), "=")
}

// IssueToken creates a bearer token of the form payload.signature, where
// payload encodes "role:id". Tokens are deterministic and never stored.
func IssueToken(p Principal, secret string) string {
	payload := encode(p.Role + ":" + p.ID)
	return payload + "." + sign(payload, secret)
}

// ParseToken verifies the signature and returns the principal it names
func ParseToken(token, secret string) (Principal, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return Principal{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(payload, secret))) {
		return Principal{}, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	role, id, ok := strings.Cut(string(raw), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return Principal{}, ErrInvalidToken
	}
	if role != models.RoleEmployee && role != models.RoleAdmin {
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: id, Role: role}, nil
}

// FromHeader extracts and verifies a token from an Authorization header value
func FromHeader(header, secret string) (Principal, error) {
	if header == "" {
		return Principal{}, ErrMissingToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	return ParseToken(strings.TrimSpace(token), secret)
}
