// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client is a small HTTP client for the attendance server, used by
// scanner stations to log a student in and mark scanned class codes.
package client
