// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/meal-window/auth"
	"github.com/danielhkuo/meal-window/cliparse"
	"github.com/danielhkuo/meal-window/db"
	"github.com/danielhkuo/meal-window/models"
)

// TestAuthSecret signs tokens in tests
const TestAuthSecret = "test-auth-secret"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in the test's temp dir and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseType:  db.TypeSQLite,
		AuthSecret:    TestAuthSecret,
		CutoffHour:    21,
		TimeZone:      "UTC",
		Location:      time.UTC,
		RetentionDays: 30,
		RetentionCron: "30 3 * * *",
		LogLevel:      "debug",
		Environment:   "test",
	}
}

// FixedClock returns a clock frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// EmployeeToken issues a bearer token for an employee
func EmployeeToken(t *testing.T, employeeID string) string {
	t.Helper()
	return auth.IssueToken(auth.Principal{ID: employeeID, Role: models.RoleEmployee}, TestAuthSecret)
}

// AdminToken issues a bearer token for an admin
func AdminToken(t *testing.T, adminID string) string {
	t.Helper()
	return auth.IssueToken(auth.Principal{ID: adminID, Role: models.RoleAdmin}, TestAuthSecret)
}

// BearerHeader builds the Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if raw, ok := body.(string); ok {
			jsonBody = []byte(raw)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
