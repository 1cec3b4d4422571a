package auth

import (
	"testing"

	"github.com/asaadbalum2/QuizBot-Shorts/models"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{ID: 42, Email: "someone@example.com"}
	token, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "someone@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateJWT(&models.User{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateJWT(&models.User{ID: 1}); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}
