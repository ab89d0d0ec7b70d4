// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - LoginRequest: enrollment, password
  - MarkAttendanceRequest: code (the scanned classroom code)
  - RegisterDeviceRequest: kind

# Response Types

  - LoginResponse: token, enrollment, name, expires_at
  - MarkAttendanceResponse: message, already_marked, attendance
  - AttendanceListResponse / ClassAttendanceResponse: records
  - RegisterDeviceResponse: device_id, is_new
  - DeviceMarksResponse: marks
  - ErrorResponse: error, message

# Domain Types

  - Student: enrollment, name (password hash never serialized)
  - Attendance: one mark per student, class and day
  - DeviceInfo: a registered scanner station

# Constants

Station kinds:

	models.KindWedge   // "wedge"  (keyboard-mode scanner or RFID reader)
	models.KindFrames  // "frames" (camera frames decoded on the station)
	models.KindWeb     // "web"    (default when a station never registered)

# Privacy

Password hashes and IP hashes use json:"-" and are never serialized.
*/
package models
