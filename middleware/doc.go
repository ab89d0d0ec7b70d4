// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, status, remote and duration_ms.

# Student Sessions

Routes that act on behalf of a student require a session token, sent as
"Authorization: Bearer <token>" or in the "session" cookie:

	mux.HandleFunc("POST /attendance/mark",
		middleware.WithLogging(middleware.RequireStudent(secret, h.Mark)))

	claims, _ := middleware.StudentFromContext(r.Context())

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
	}

Listed origins are echoed with credentials allowed; "*" admits any origin
without credentials. Allows GET, POST, OPTIONS with headers Content-Type,
Authorization, X-Device-UUID and X-Admin-Key.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.MarkAttendanceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Only the salted hash of this value is stored with attendance marks.
*/
package middleware
