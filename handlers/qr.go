// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/danielhkuo/quickly-scan/middleware"
)

// QR image bounds in pixels
const (
	DefaultQRSize = 256
	MinQRSize     = 64
	MaxQRSize     = 1024
)

type QRHandler struct{}

func NewQRHandler() *QRHandler {
	return &QRHandler{}
}

// ClassQR handles GET /classes/{code}/qr.png
// Returns a PNG QR code encoding the class code, for display in the classroom
func (h *QRHandler) ClassQR(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "class code is required")
		return
	}

	size := DefaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "size must be a number")
			return
		}
		size = min(max(n, MinQRSize), MaxQRSize)
	}

	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		slog.Error("failed to encode QR code", "error", err, "class", code)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
