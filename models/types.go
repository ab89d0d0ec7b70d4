package models

import "time"

// Scanner station kinds
const (
	KindWedge  = "wedge"
	KindFrames = "frames"
	KindWeb    = "web"
)

// Request types

type LoginRequest struct {
	Enrollment string `json:"enrollment"`
	Password   string `json:"password"`
}

type MarkAttendanceRequest struct {
	Code string `json:"code"`
}

type RegisterDeviceRequest struct {
	Kind string `json:"kind"`
}

// Response types

type LoginResponse struct {
	Token      string    `json:"token"`
	Enrollment string    `json:"enrollment"`
	Name       string    `json:"name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type MarkAttendanceResponse struct {
	Message       string     `json:"message"`
	AlreadyMarked bool       `json:"already_marked"`
	Attendance    Attendance `json:"attendance"`
}

type AttendanceListResponse struct {
	Records []Attendance `json:"records"`
}

type ClassAttendanceResponse struct {
	ClassCode string       `json:"class_code"`
	Date      string       `json:"date,omitempty"`
	Present   int          `json:"present"`
	Records   []Attendance `json:"records"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

type DeviceMarksResponse struct {
	Marks []Attendance `json:"marks"`
}

// Domain types

type Student struct {
	Enrollment   string    `json:"enrollment"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Attendance is one student present in one class on one day.
// Date is YYYY-MM-DD and Time HH:MM:SS, both server local time.
type Attendance struct {
	ID         string    `json:"id"`
	Enrollment string    `json:"enrollment"`
	ClassCode  string    `json:"class_code"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	MarkedAt   time.Time `json:"marked_at"`
	DeviceID   *string   `json:"device_id,omitempty"`
	IPHash     *string   `json:"-"` // Never expose in JSON
}

type DeviceInfo struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
