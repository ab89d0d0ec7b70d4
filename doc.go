// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Scan attendance server.

Quickly Scan marks students present by scanning a classroom QR code. A
scanner station (see cmd/scanner) decodes the code and posts it for the
logged-in student; the server records at most one mark per student, class
and day.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SESSION_SECRET=... ADMIN_KEY_SALT=... go run . -seed

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..."

# Configuration

Required settings:

  - SESSION_SECRET (--session-secret): Secret for signing login sessions
  - ADMIN_KEY_SALT (--admin-salt): Secret for instructor key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): SQLite file or PostgreSQL URL (default: quickly-scan.db)
  - IP_HASH_SALT (--ip-salt): Secret for client IP hashing
  - SEED_STUDENTS (--seed): Insert the demo students

A .env file in the working directory is loaded first.

Print the instructor key for a class:

	go run . --print-key CS101

# Architecture

  - handlers: HTTP request handlers (students, attendance, QR, devices)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, student sessions
  - models: Request/response types
  - auth: Passwords, sessions, instructor keys, IP hashing
  - db: Connection, schema, seed data
  - cliparse: Configuration parsing

The scanner side lives in scanner (controller), capture (input devices),
display (terminal) and client (API client).
*/
package main
