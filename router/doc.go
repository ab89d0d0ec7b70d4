// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Scan API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(d, cfg)

# Endpoints

Health:

	GET /health

Students:

	POST /login        - Exchange enrollment and password for a session
	POST /logout       - Clear the session cookie
	GET  /students/me  - Current student (session required)

Attendance:

	POST /attendance/mark  - Mark the scanned class code (session required)
	GET  /attendance       - All marks, newest first (?class=, ?date=)
	GET  /attendance/view  - Same list as HTML

Classes:

	GET /classes/{code}/attendance - Instructor report (requires X-Admin-Key)
	GET /classes/{code}/qr.png     - QR code to display in the room

Scanner stations:

	POST /devices/register - Register station
	GET  /devices/me       - Get station info
	GET  /devices/my-marks - Marks recorded through the station

Session routes accept "Authorization: Bearer <token>" or the session cookie.
*/
package router
