// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Student Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrInvalidPassword on mismatch

# Sessions

A successful login yields an HS256 JWT whose subject is the enrollment:

	token, expiresAt, err := auth.IssueSession(enrollment, name, secret, ttl, time.Now())
	claims, err := auth.ParseSession(token, secret)

Every rejection (bad signature, expiry, other algorithms, missing subject)
wraps ErrInvalidSession.

# Instructor Keys

Admin keys use HMAC-SHA256 over the class code:

	adminKey := auth.GenerateAdminKey(classCode, salt)
	err := auth.ValidateAdminKey(classCode, adminKey, salt)

The key is deterministic, so it can be validated without being stored.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Attendance records keep only a salted hash of the client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
