// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-scan/auth"
	"github.com/danielhkuo/quickly-scan/cliparse"
	"github.com/danielhkuo/quickly-scan/db"
	"github.com/danielhkuo/quickly-scan/middleware"
	"github.com/danielhkuo/quickly-scan/models"
)

type StudentHandler struct {
	db  *db.DB
	cfg cliparse.Config
}

func NewStudentHandler(db *db.DB, cfg cliparse.Config) *StudentHandler {
	return &StudentHandler{db: db, cfg: cfg}
}

// Login handles POST /login
// Checks the password and returns a session token, also set as a cookie
func (h *StudentHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	enrollment := strings.TrimSpace(req.Enrollment)
	if enrollment == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "enrollment and password are required")
		return
	}

	var name, hash string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT name, password_hash FROM student WHERE enrollment = ?
	`, enrollment).Scan(&name, &hash)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid enrollment or password")
		return
	}
	if err != nil {
		slog.Error("failed to query student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		slog.Info("login rejected", "enrollment", enrollment)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid enrollment or password")
		return
	}

	token, expiresAt, err := auth.IssueSession(enrollment, name, h.cfg.SessionSecret, h.cfg.SessionTTL, time.Now())
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("student logged in", "enrollment", enrollment)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:      token,
		Enrollment: enrollment,
		Name:       name,
		ExpiresAt:  expiresAt,
	})
}

// Me handles GET /students/me
func (h *StudentHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StudentFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "You must log in first")
		return
	}

	var student models.Student
	err := h.db.QueryRowContext(r.Context(), `
		SELECT enrollment, name, created_at FROM student WHERE enrollment = ?
	`, claims.Enrollment()).Scan(&student.Enrollment, &student.Name, &student.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Student not found")
		return
	}
	if err != nil {
		slog.Error("failed to query student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, student)
}

// Logout handles POST /logout
// Clears the session cookie. Bearer tokens stay valid until they expire.
func (h *StudentHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
