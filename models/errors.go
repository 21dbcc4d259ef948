// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"

	"github.com/danielhkuo/meal-window/window"
)

var (
	ErrAlreadySubmitted    = errors.New("confirmation already submitted for this window")
	ErrUnauthorized        = errors.New("role not permitted for this operation")
	ErrInvalidWindow       = window.ErrInvalid
	ErrUpstreamUnavailable = errors.New("storage unavailable")
	ErrInvalidRequest      = errors.New("malformed request")
)

// Error kinds as they appear in the "error" field on the wire
const (
	KindAlreadySubmitted    = "AlreadySubmitted"
	KindUnauthorized        = "Unauthorized"
	KindInvalidWindow       = "InvalidWindow"
	KindUpstreamUnavailable = "UpstreamUnavailable"
	KindInvalidRequest      = "InvalidRequest"
)

// Kind maps err onto the taxonomy. Unknown errors are reported as
// UpstreamUnavailable so nothing internal leaks to the client.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrAlreadySubmitted):
		return KindAlreadySubmitted
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrInvalidWindow):
		return KindInvalidWindow
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindUpstreamUnavailable
	}
}
