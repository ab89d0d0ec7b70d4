// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-scan/auth"
	"github.com/danielhkuo/quickly-scan/cliparse"
	"github.com/danielhkuo/quickly-scan/db"
	"github.com/danielhkuo/quickly-scan/middleware"
	"github.com/danielhkuo/quickly-scan/models"
)

// DeviceHeader identifies a scanner station
const DeviceHeader = "X-Device-UUID"

type DeviceHandler struct {
	db  *db.DB
	cfg cliparse.Config
}

func NewDeviceHandler(db *db.DB, cfg cliparse.Config) *DeviceHandler {
	return &DeviceHandler{db: db, cfg: cfg}
}

// Register handles POST /devices/register
// Registers a scanner station and returns its device_id (or finds existing)
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get(DeviceHeader)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var req models.RegisterDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !isValidKind(req.Kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be one of: wedge, frames, web")
		return
	}

	ctx := r.Context()

	var existingID string
	err := h.db.QueryRowContext(ctx, `
		SELECT id FROM device WHERE device_uuid = ?
	`, deviceUUID).Scan(&existingID)

	if err == nil {
		// Existing station: refresh kind and last_seen_at
		_, err = h.db.ExecContext(ctx, `
			UPDATE device SET kind = ?, last_seen_at = ? WHERE id = ?
		`, req.Kind, time.Now().UTC(), existingID)
		if err != nil {
			slog.Error("failed to update device", "error", err)
		}

		slog.Info("device registered (existing)", "device_id", existingID)
		middleware.JSONResponse(w, http.StatusOK, models.RegisterDeviceResponse{
			DeviceID: existingID,
			IsNew:    false,
		})
		return
	}

	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	deviceID, err := insertDevice(ctx, h.db, deviceUUID, req.Kind)
	if err != nil {
		slog.Error("failed to insert device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	slog.Info("device registered (new)", "device_id", deviceID, "kind", req.Kind)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterDeviceResponse{
		DeviceID: deviceID,
		IsNew:    true,
	})
}

// GetMe handles GET /devices/me
// Returns current device info
func (h *DeviceHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get(DeviceHeader)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var device models.DeviceInfo
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, kind, created_at, last_seen_at
		FROM device
		WHERE device_uuid = ?
	`, deviceUUID).Scan(&device.ID, &device.Kind, &device.CreatedAt, &device.LastSeenAt)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	touchDevice(r.Context(), h.db, device.ID)

	middleware.JSONResponse(w, http.StatusOK, device)
}

// GetMyMarks handles GET /devices/my-marks
// Returns attendance recorded through this station, newest first
func (h *DeviceHandler) GetMyMarks(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get(DeviceHeader)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var deviceID string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id FROM device WHERE device_uuid = ?
	`, deviceUUID).Scan(&deviceID)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	touchDevice(r.Context(), h.db, deviceID)

	marks, err := queryMarks(r.Context(), h.db, `
		SELECT `+attendanceColumns+` FROM attendance
		WHERE device_id = ?
		ORDER BY marked_at DESC
	`, deviceID)
	if err != nil {
		slog.Error("failed to query device marks", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeviceMarksResponse{Marks: marks})
}

// GetOrCreateDevice looks up or creates a device record from the X-Device-UUID header.
// Returns empty string if no header. Unknown stations are created as web.
func GetOrCreateDevice(ctx context.Context, d *db.DB, r *http.Request) (string, error) {
	deviceUUID := r.Header.Get(DeviceHeader)
	if deviceUUID == "" {
		return "", nil
	}

	var deviceID string
	err := d.QueryRowContext(ctx, `
		SELECT id FROM device WHERE device_uuid = ?
	`, deviceUUID).Scan(&deviceID)

	if err == nil {
		touchDevice(ctx, d, deviceID)
		return deviceID, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	return insertDevice(ctx, d, deviceUUID, models.KindWeb)
}

func insertDevice(ctx context.Context, d *db.DB, deviceUUID, kind string) (string, error) {
	deviceID, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	_, err = d.ExecContext(ctx, `
		INSERT INTO device (id, device_uuid, kind, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?)
	`, deviceID, deviceUUID, kind, now, now)
	if err != nil {
		return "", err
	}

	return deviceID, nil
}

func touchDevice(ctx context.Context, d *db.DB, deviceID string) {
	_, err := d.ExecContext(ctx, `
		UPDATE device SET last_seen_at = ? WHERE id = ?
	`, time.Now().UTC(), deviceID)
	if err != nil {
		slog.Error("failed to update device last_seen_at", "error", err)
	}
}

func isValidKind(kind string) bool {
	switch kind {
	case models.KindWedge, models.KindFrames, models.KindWeb:
		return true
	}
	return false
}
