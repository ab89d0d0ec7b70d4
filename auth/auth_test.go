// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name      string
		classCode string
		salt      string
	}{
		{"standard", "CLASSROOM-101", "secret-salt"},
		{"empty class code", "", "salt"},
		{"empty salt", "CLASSROOM-202", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.classCode, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			key2 := GenerateAdminKey(tt.classCode, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.classCode != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.classCode+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different classes")
				}
			}

			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	classCode := "CLASSROOM-101"
	salt := "test-salt"
	validKey := GenerateAdminKey(classCode, salt)

	tests := []struct {
		name      string
		classCode string
		adminKey  string
		salt      string
		wantErr   bool
	}{
		{"valid key", classCode, validKey, salt, false},
		{"wrong key", classCode, "wrong-key", salt, true},
		{"wrong class", "CLASSROOM-999", validKey, salt, true},
		{"wrong salt", classCode, validKey, "different-salt", true},
		{"empty key", classCode, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.classCode, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("ENR2025001")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "ENR2025001" {
		t.Fatal("HashPassword() returned the plain password")
	}

	if err := CheckPassword(hash, "ENR2025001"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrInvalidPassword {
		t.Errorf("CheckPassword() with wrong password = %v, want %v", err, ErrInvalidPassword)
	}
	if err := CheckPassword("not-a-hash", "ENR2025001"); err != ErrInvalidPassword {
		t.Errorf("CheckPassword() with malformed hash = %v, want %v", err, ErrInvalidPassword)
	}
}

func TestIssueAndParseSession(t *testing.T) {
	secret := "session-secret"
	now := time.Now()

	token, expiresAt, err := IssueSession("ENR2025001", "Alice", secret, time.Hour, now)
	if err != nil {
		t.Fatalf("IssueSession() error = %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("Expected expiry %v, got %v", now.Add(time.Hour), expiresAt)
	}

	claims, err := ParseSession(token, secret)
	if err != nil {
		t.Fatalf("ParseSession() error = %v", err)
	}
	if claims.Enrollment() != "ENR2025001" {
		t.Errorf("Expected enrollment 'ENR2025001', got '%s'", claims.Enrollment())
	}
	if claims.Name != "Alice" {
		t.Errorf("Expected name 'Alice', got '%s'", claims.Name)
	}
}

func TestParseSession_Rejects(t *testing.T) {
	secret := "session-secret"
	valid, _, err := IssueSession("ENR2025001", "Alice", secret, time.Hour, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	expired, _, err := IssueSession("ENR2025001", "Alice", secret, time.Hour, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "ENR2025001"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other-secret"},
		{"expired", expired, secret},
		{"garbage", "not.a.token", secret},
		{"none algorithm", noneAlg, secret},
		{"missing subject", noSubject, secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSession(tt.token, tt.secret)
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("ParseSession() error = %v, want %v", err, ErrInvalidSession)
			}
		})
	}
}

func TestSessionRequiresSecret(t *testing.T) {
	if _, _, err := IssueSession("ENR2025001", "Alice", "", time.Hour, time.Now()); err != ErrEmptySecret {
		t.Errorf("IssueSession() error = %v, want %v", err, ErrEmptySecret)
	}
	if _, err := ParseSession("x.y.z", ""); err != ErrEmptySecret {
		t.Errorf("ParseSession() error = %v, want %v", err, ErrEmptySecret)
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}
			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	classCode := "CLASSROOM-101"
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(classCode, salt)
	}
}

func BenchmarkParseSession(b *testing.B) {
	token, _, _ := IssueSession("ENR2025001", "Alice", "secret", time.Hour, time.Now())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseSession(token, "secret")
	}
}
