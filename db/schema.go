// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-scan/auth"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, d *DB) error {
	_, err := d.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Students
CREATE TABLE IF NOT EXISTS student (
    enrollment TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Scanner stations
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_device_uuid ON device(device_uuid);

-- Attendance marks
CREATE TABLE IF NOT EXISTS attendance (
    id TEXT PRIMARY KEY,
    enrollment TEXT NOT NULL REFERENCES student(enrollment) ON DELETE CASCADE,
    class_code TEXT NOT NULL,
    mark_date TEXT NOT NULL,
    mark_time TEXT NOT NULL,
    marked_at TIMESTAMP NOT NULL,
    device_id TEXT REFERENCES device(id) ON DELETE SET NULL,
    ip_hash TEXT,
    UNIQUE (enrollment, mark_date, class_code)
);

CREATE INDEX IF NOT EXISTS idx_attendance_class ON attendance(class_code, mark_date);
CREATE INDEX IF NOT EXISTS idx_attendance_device ON attendance(device_id);
`

// DemoStudent is a seeded account whose password is its enrollment
type DemoStudent struct {
	Enrollment string
	Name       string
}

var DemoStudents = []DemoStudent{
	{"ENR2025001", "Alice"},
	{"ENR2025002", "Bob"},
	{"ENR2025003", "Charlie"},
}

// SeedStudents inserts the demo students that do not exist yet and returns
// how many were added.
func SeedStudents(ctx context.Context, d *DB) (int, error) {
	added := 0
	for _, s := range DemoStudents {
		hash, err := auth.HashPassword(s.Enrollment)
		if err != nil {
			return added, err
		}

		res, err := d.ExecContext(ctx, `
			INSERT INTO student (enrollment, name, password_hash, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (enrollment) DO NOTHING
		`, s.Enrollment, s.Name, hash, time.Now().UTC())
		if err != nil {
			return added, fmt.Errorf("failed to seed student %s: %w", s.Enrollment, err)
		}

		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}
	return added, nil
}
