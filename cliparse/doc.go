// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv should run first so a local .env file can supply variables:

	cliparse.LoadDotEnv()

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL URL (default: quickly-scan.db)
  - DatabaseType: sqlite (default) or postgres
  - SessionSecret: Secret for signing login sessions (required)
  - AdminKeySalt: Secret for instructor key HMAC (required)
  - IPHashSalt: Secret for hashing client IPs (default: SessionSecret)
  - SessionTTL: Login session lifetime (default: 12h)
  - Seed: Insert the demo students at startup
  - PrintKeyFor: Print a class's instructor key instead of serving
  - AllowedOrigins: Browser origins allowed by CORS (default: none)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session signing secret
	--admin-salt      Instructor key salt
	--ip-salt         IP hash salt
	--session-ttl     Session lifetime
	--seed            Seed demo students
	--print-key CODE  Print the instructor key for CODE and exit
	--cors-origins    Comma-separated allowed origins

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → --session-secret
	ADMIN_KEY_SALT → --admin-salt
	IP_HASH_SALT   → --ip-salt
	SESSION_TTL    → --session-ttl
	SEED_STUDENTS  → --seed (when "true")
	CORS_ORIGINS   → --cors-origins

CLI flags take precedence over environment variables, and environment
variables over .env files.
*/
package cliparse
