// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-scan/auth"
	"github.com/danielhkuo/quickly-scan/cliparse"
	"github.com/danielhkuo/quickly-scan/db"
	"github.com/danielhkuo/quickly-scan/middleware"
	"github.com/danielhkuo/quickly-scan/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

const attendanceColumns = `id, enrollment, class_code, mark_date, mark_time, marked_at, device_id`

type AttendanceHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewAttendanceHandler(db *db.DB, cfg cliparse.Config) *AttendanceHandler {
	return &AttendanceHandler{db: db, cfg: cfg, now: time.Now}
}

// Mark handles POST /attendance/mark
// Records the logged-in student as present for the scanned class code, at
// most once per day
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StudentFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "You must log in first")
		return
	}

	var req models.MarkAttendanceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	deviceID, err := GetOrCreateDevice(r.Context(), h.db, r)
	if err != nil {
		// Marks are still accepted without a station
		slog.Warn("failed to resolve device", "error", err)
		deviceID = ""
	}
	var dev sql.NullString
	if deviceID != "" {
		dev = sql.NullString{String: deviceID, Valid: true}
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)

	now := h.now()
	mark := models.Attendance{
		ID:         uuid.NewString(),
		Enrollment: claims.Enrollment(),
		ClassCode:  code,
		Date:       now.Format(dateLayout),
		Time:       now.Format(timeLayout),
		MarkedAt:   now.UTC(),
	}

	res, err := h.db.ExecContext(r.Context(), `
		INSERT INTO attendance (id, enrollment, class_code, mark_date, mark_time, marked_at, device_id, ip_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (enrollment, mark_date, class_code) DO NOTHING
	`, mark.ID, mark.Enrollment, mark.ClassCode, mark.Date, mark.Time, mark.MarkedAt, dev, ipHash)
	if err != nil {
		slog.Error("failed to insert attendance", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to mark attendance")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to mark attendance")
		return
	}

	if n == 0 {
		existing, err := scanAttendance(h.db.QueryRowContext(r.Context(), `
			SELECT `+attendanceColumns+` FROM attendance
			WHERE enrollment = ? AND mark_date = ? AND class_code = ?
		`, mark.Enrollment, mark.Date, mark.ClassCode))
		if err != nil {
			slog.Error("failed to load existing attendance", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		middleware.JSONResponse(w, http.StatusOK, models.MarkAttendanceResponse{
			Message:       fmt.Sprintf("Already marked for %s at %s (Class %s)", existing.Date, existing.Time, existing.ClassCode),
			AlreadyMarked: true,
			Attendance:    existing,
		})
		return
	}

	if dev.Valid {
		mark.DeviceID = &dev.String
	}

	slog.Info("attendance marked", "enrollment", mark.Enrollment, "class", mark.ClassCode, "device_id", deviceID)

	middleware.JSONResponse(w, http.StatusCreated, models.MarkAttendanceResponse{
		Message:    fmt.Sprintf("Attendance marked at %s (Class %s)", mark.Time, mark.ClassCode),
		Attendance: mark,
	})
}

// List handles GET /attendance
// Optional ?class= and ?date= filters
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.listMarks(r.Context(), r.URL.Query().Get("class"), r.URL.Query().Get("date"))
	if errors.Is(err, errBadDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if err != nil {
		slog.Error("failed to list attendance", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AttendanceListResponse{Records: records})
}

var viewTemplate = template.Must(template.New("attendance").Funcs(template.FuncMap{
	"ago": humanize.Time,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Attendance</title></head>
<body>
<h1>Attendance</h1>
{{if .}}<table id="attendance">
<thead><tr><th>Enrollment</th><th>Class</th><th>Date</th><th>Time</th><th>Marked</th></tr></thead>
<tbody>
{{range .}}<tr class="mark"><td>{{.Enrollment}}</td><td>{{.ClassCode}}</td><td>{{.Date}}</td><td>{{.Time}}</td><td>{{ago .MarkedAt}}</td></tr>
{{end}}</tbody>
</table>{{else}}<p class="empty">No attendance recorded yet.</p>{{end}}
</body>
</html>
`))

// View handles GET /attendance/view
// Renders the same list as an HTML table
func (h *AttendanceHandler) View(w http.ResponseWriter, r *http.Request) {
	records, err := h.listMarks(r.Context(), r.URL.Query().Get("class"), r.URL.Query().Get("date"))
	if errors.Is(err, errBadDate) {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("failed to list attendance", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewTemplate.Execute(w, records); err != nil {
		slog.Error("failed to render attendance view", "error", err)
	}
}

// ClassAttendance handles GET /classes/{code}/attendance
// Requires the class's X-Admin-Key
func (h *AttendanceHandler) ClassAttendance(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	adminKey := r.Header.Get("X-Admin-Key")

	if err := auth.ValidateAdminKey(code, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	date := r.URL.Query().Get("date")
	records, err := h.listMarks(r.Context(), code, date)
	if errors.Is(err, errBadDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if err != nil {
		slog.Error("failed to list class attendance", "error", err, "class", code)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	present := make(map[string]struct{}, len(records))
	for _, rec := range records {
		present[rec.Enrollment] = struct{}{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClassAttendanceResponse{
		ClassCode: code,
		Date:      date,
		Present:   len(present),
		Records:   records,
	})
}

var errBadDate = errors.New("invalid date")

// listMarks returns marks newest first, optionally filtered by class and date
func (h *AttendanceHandler) listMarks(ctx context.Context, classCode, date string) ([]models.Attendance, error) {
	var where []string
	var args []any

	if classCode != "" {
		where = append(where, "class_code = ?")
		args = append(args, classCode)
	}
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, errBadDate
		}
		where = append(where, "mark_date = ?")
		args = append(args, date)
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY mark_date DESC, mark_time DESC`

	return queryMarks(ctx, h.db, query, args...)
}

// queryMarks runs a SELECT of attendanceColumns
func queryMarks(ctx context.Context, d *db.DB, query string, args ...any) ([]models.Attendance, error) {
	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	records := []models.Attendance{}
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (models.Attendance, error) {
	var rec models.Attendance
	var deviceID sql.NullString

	if err := row.Scan(
		&rec.ID,
		&rec.Enrollment,
		&rec.ClassCode,
		&rec.Date,
		&rec.Time,
		&rec.MarkedAt,
		&deviceID,
	); err != nil {
		return models.Attendance{}, fmt.Errorf("failed to scan attendance: %w", err)
	}

	if deviceID.Valid {
		rec.DeviceID = &deviceID.String
	}
	return rec, nil
}
