// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-scan/cliparse"
	"github.com/danielhkuo/quickly-scan/db"
	"github.com/danielhkuo/quickly-scan/handlers"
	"github.com/danielhkuo/quickly-scan/middleware"
)

func NewRouter(d *db.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	studentHandler := handlers.NewStudentHandler(d, cfg)
	attendanceHandler := handlers.NewAttendanceHandler(d, cfg)
	qrHandler := handlers.NewQRHandler()
	deviceHandler := handlers.NewDeviceHandler(d, cfg)

	student := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireStudent(cfg.SessionSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Students
	mux.HandleFunc("POST /login", middleware.WithLogging(studentHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(studentHandler.Logout))
	mux.HandleFunc("GET /students/me", student(studentHandler.Me))

	// Attendance
	mux.HandleFunc("POST /attendance/mark", student(attendanceHandler.Mark))
	mux.HandleFunc("GET /attendance", middleware.WithLogging(attendanceHandler.List))
	mux.HandleFunc("GET /attendance/view", middleware.WithLogging(attendanceHandler.View))

	// Classes (instructor report requires X-Admin-Key)
	mux.HandleFunc("GET /classes/{code}/attendance", middleware.WithLogging(attendanceHandler.ClassAttendance))
	mux.HandleFunc("GET /classes/{code}/qr.png", middleware.WithLogging(qrHandler.ClassQR))

	// Scanner stations
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))
	mux.HandleFunc("GET /devices/me", middleware.WithLogging(deviceHandler.GetMe))
	mux.HandleFunc("GET /devices/my-marks", middleware.WithLogging(deviceHandler.GetMyMarks))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-scan API v1"))
	})

	return mux
}
