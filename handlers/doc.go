// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Scan API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - StudentHandler: Login and the current student
  - AttendanceHandler: Marking, listing and per-class reports
  - QRHandler: Classroom QR images
  - DeviceHandler: Scanner station registration and history

Handlers are created via constructor functions that accept *db.DB and Config:

	attendanceHandler := handlers.NewAttendanceHandler(d, cfg)

# Marking Attendance

A student logs in once, then every scanned class code is posted:

	POST /login            → Login (returns token, sets session cookie)
	POST /logout           → Logout (clears the cookie)
	POST /attendance/mark  → Mark (201 first time today, 200 if already marked)

A student is marked at most once per class per day. Mark records the
scanner station from X-Device-UUID and a salted hash of the client IP.

# Reports

	GET /attendance                  → List (JSON, newest first)
	GET /attendance/view             → View (HTML table)
	GET /classes/{code}/attendance   → ClassAttendance (X-Admin-Key)
	GET /classes/{code}/qr.png       → ClassQR (?size=64..1024)

The admin key for a class is auth.GenerateAdminKey(code, ADMIN_KEY_SALT).

# Device Tracking

	POST /devices/register → Register (kind: wedge, frames or web)
	GET /devices/me        → GetMe
	GET /devices/my-marks  → GetMyMarks

Device operations require the X-Device-UUID header.
*/
package handlers
