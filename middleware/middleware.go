// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danielhkuo/meal-window/auth"
	"github.com/danielhkuo/meal-window/logging"
	"github.com/danielhkuo/meal-window/models"
)

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := logging.Log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"remote": GetClientIP(r),
		})

		entry.Debug("request started")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		entry.WithFields(logrus.Fields{
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request completed")
	}
}

// Recovery turns a handler panic into a 500 and logs it
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logging.Log.WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  fmt.Sprint(v),
				}).Error("handler panicked")
				ErrorResponse(w, http.StatusInternalServerError, models.KindUpstreamUnavailable, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logging.Log.WithError(err).Error("failed to encode JSON response")
	}
}

// ErrorResponse writes a JSON error response. kind is one of the
// models.Kind* strings.
func ErrorResponse(w http.ResponseWriter, statusCode int, kind, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   kind,
		Message: message,
	})
}

// ParseJSONBody decodes exactly one JSON value into v. Unknown fields and
// trailing data are rejected.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP returns the first address in X-Forwarded-For, then
// X-Real-IP, then RemoteAddr without its port.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type principalKey struct{}

// PrincipalFrom returns the caller attached by Authenticate
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(auth.Principal)
	return p, ok
}

func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// Authenticate verifies the bearer token and attaches the principal.
// A missing or bad token is 401; an authenticated caller with the wrong
// role is 403. With no roles given, any valid token passes.
func Authenticate(secret string, roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			p, err := auth.FromHeader(r.Header.Get("Authorization"), secret)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				ErrorResponse(w, http.StatusUnauthorized, models.KindUnauthorized, err.Error())
				return
			}

			if len(roles) > 0 && !hasRole(p, roles) {
				ErrorResponse(w, http.StatusForbidden, models.KindUnauthorized, models.ErrUnauthorized.Error())
				return
			}

			next(w, r.WithContext(WithPrincipal(r.Context(), p)))
		}
	}
}

// Identify attaches the principal when the bearer token is valid and passes
// every request through. The handler reports a missing principal itself.
func Identify(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if p, err := auth.FromHeader(r.Header.Get("Authorization"), secret); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next(w, r)
		}
	}
}

func hasRole(p auth.Principal, roles []string) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
