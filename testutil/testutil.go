// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-scan/auth"
	"github.com/danielhkuo/quickly-scan/cliparse"
	"github.com/danielhkuo/quickly-scan/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir and is closed when the test ends.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(context.Background(), db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.CreateSchema(context.Background(), d); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return d
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "test.db",
		DatabaseType:  db.TypeSQLite,
		SessionSecret: "test-session-secret",
		AdminKeySalt:  "test-admin-salt",
		IPHashSalt:    "test-ip-salt",
		SessionTTL:    time.Hour,
	}
}

// CreateTestStudent inserts a student whose password equals the enrollment
func CreateTestStudent(t *testing.T, d *db.DB, enrollment, name string) {
	t.Helper()

	hash, err := auth.HashPassword(enrollment)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	_, err = d.ExecContext(context.Background(), `
		INSERT INTO student (enrollment, name, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, enrollment, name, hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}
}

// IssueTestToken returns a session token for the student
func IssueTestToken(t *testing.T, cfg cliparse.Config, enrollment, name string) string {
	t.Helper()

	token, _, err := auth.IssueSession(enrollment, name, cfg.SessionSecret, cfg.SessionTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue test session: %v", err)
	}
	return token
}

// CreateTestMark inserts an attendance row directly and returns its ID
func CreateTestMark(t *testing.T, d *db.DB, enrollment, classCode string, markedAt time.Time) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	local := markedAt.Local()
	_, err := d.ExecContext(context.Background(), `
		INSERT INTO attendance (id, enrollment, class_code, mark_date, mark_time, marked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, enrollment, classCode, local.Format("2006-01-02"), local.Format("15:04:05"), markedAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test mark: %v", err)
	}

	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
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

// BearerHeaders returns request headers carrying a session token
func BearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
