// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open accepts "sqlite" (modernc.org/sqlite, the default) or "postgres"
(lib/pq):

	conn, err := db.Open(ctx, db.TypeSQLite, "quickly-scan.db")

Queries are written once with ? placeholders; DB rewrites them to $n for
PostgreSQL.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - student: enrollment, name, bcrypt password hash
  - device: registered scanner stations
  - attendance: one row per student, class code and day

# Relationships

	student 1──* attendance
	device  1──* attendance (nullable, SET NULL on delete)

# Seeding

SeedStudents adds the three demo accounts (password = enrollment). Existing
rows are left untouched.
*/
package db
