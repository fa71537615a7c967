package auth

import (
	"testing"
	"time"

	"quadramall/apienvelope/internal/constants"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	token, err := svc.Issue("user-42", constants.RoleSeller, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claims.UserID() != "user-42" {
		t.Errorf("Expected user-42, got %s", claims.UserID())
	}
	if !claims.HasRole(constants.RoleAdmin, constants.RoleSeller) {
		t.Errorf("Expected seller role, got %s", claims.Role())
	}
	if claims.HasRole(constants.RoleAdmin) {
		t.Error("Seller must not match admin")
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue("user-42", constants.RoleBuyer, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Parse(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService([]byte("a")).Issue("user-42", constants.RoleBuyer, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := NewTokenService([]byte("b")).Parse(token); err == nil {
		t.Error("Expected signature mismatch")
	}
}

func TestTokenService_IssueRejectsUnknownRole(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))
	if _, err := svc.Issue("user-42", constants.Role("pilot"), time.Hour); err == nil {
		t.Error("Expected unknown role to be rejected")
	}
	if _, err := svc.Issue("", constants.RoleBuyer, time.Hour); err == nil {
		t.Error("Expected empty subject to be rejected")
	}
}
