package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", 24*time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, "jane@clinic.example", "jane", "healthcare_provider")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Errorf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "jane@clinic.example" {
		t.Errorf("expected email jane@clinic.example, got %s", claims.Email)
	}
	if claims.Username != "jane" {
		t.Errorf("expected username jane, got %s", claims.Username)
	}
	if claims.Role != "healthcare_provider" {
		t.Errorf("expected role healthcare_provider, got %s", claims.Role)
	}
}

func TestIssuer_ParseRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", 24*time.Hour)
	token, err := issuer.Issue(uuid.New(), "a@b.c", "a", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewIssuer("secret-b", 24*time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestIssuer_ParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Hour)
	token, err := issuer.Issue(uuid.New(), "a@b.c", "a", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestIssuer_ParseRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", 24*time.Hour)
	if _, err := issuer.Parse("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
