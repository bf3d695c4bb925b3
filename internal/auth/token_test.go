package auth

import (
	"testing"
	"time"

	"github.com/membership-service/internal/types"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := IssueToken(secret, "user-1", "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := NewTokenVerifier(secret).Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %s, want alice@example.com", claims.Email)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret-a", "user-1", "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	_, err = NewTokenVerifier("secret-b").Verify(token)
	if err == nil {
		t.Fatal("Verify() error = nil, want error for wrong secret")
	}
	if !types.IsCode(err, types.CodeNotAuthenticated) {
		t.Errorf("error code = %v, want %s", err, types.CodeNotAuthenticated)
	}
}

func TestTokenExpired(t *testing.T) {
	secret := "test-secret"

	token, err := IssueToken(secret, "user-1", "alice@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := NewTokenVerifier(secret).Verify(token); err == nil {
		t.Error("Verify() error = nil, want error for expired token")
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := NewTokenVerifier("test-secret").Verify("not-a-token"); err == nil {
		t.Error("Verify() error = nil, want error for malformed token")
	}
}
