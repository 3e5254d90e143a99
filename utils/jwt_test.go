package utils

import (
	"testing"
	"time"

	"vivaah_server/models"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(secret, models.Caller{UserID: "u-1", Role: models.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	caller, err := VerifyToken(secret, token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if caller.UserID != "u-1" || !caller.IsAdmin() {
		t.Errorf("caller = %+v", caller)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	t.Parallel()

	expired, _ := GenerateToken(secret, models.Caller{UserID: "u-1"}, -time.Minute)
	otherKey, _ := GenerateToken([]byte("other"), models.Caller{UserID: "u-1"}, time.Hour)
	noSubject, _ := GenerateToken(secret, models.Caller{}, time.Hour)

	tests := map[string]string{
		"expired":    expired,
		"wrong key":  otherKey,
		"no subject": noSubject,
		"garbage":    "not.a.token",
	}
	for name, token := range tests {
		if _, err := VerifyToken(secret, token); err == nil {
			t.Errorf("%s: VerifyToken() accepted token", name)
		}
	}
	if _, err := VerifyToken(nil, expired); err == nil {
		t.Error("VerifyToken() without secret should fail")
	}
}

func TestVerifyTokenDefaultsRole(t *testing.T) {
	t.Parallel()

	token, _ := GenerateToken(secret, models.Caller{UserID: "u-2"}, time.Hour)
	caller, err := VerifyToken(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	if caller.Role != models.RoleUser {
		t.Errorf("Role = %q, want %q", caller.Role, models.RoleUser)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, ok)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	if TextOr("  ", "N/A") != "N/A" || TextOr("Pune", "N/A") != "Pune" {
		t.Error("TextOr")
	}
	if FirstPhotoOr(nil, "p") != "p" || FirstPhotoOr([]string{"", "https://x/1"}, "p") != "https://x/1" {
		t.Error("FirstPhotoOr")
	}
}
