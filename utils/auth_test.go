package utils

import (
	"testing"

	"jejakin-server/config"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("s3cret-password", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	config.Load()

	token, err := GenerateToken(42, "alice@example.com", "partner")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email preserved, got %s", claims.Email)
	}
	if claims.Role != "partner" {
		t.Errorf("expected role partner, got %s", claims.Role)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	config.Load()

	if _, err := VerifyToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := VerifyToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}
