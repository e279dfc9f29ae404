package auth_test

import (
	"testing"

	"github.com/idlikadai/backend/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("ravi")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	subject, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if subject != "ravi" {
		t.Errorf("subject = %q, want %q", subject, "ravi")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := auth.VerifyToken(bad); err == nil {
			t.Errorf("VerifyToken(%q) succeeded, want error", bad)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	token, err := auth.GenerateToken("ravi")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := auth.VerifyToken(tampered); err == nil {
		t.Error("tampered token verified, want error")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash equals the plain text")
	}

	if !auth.CheckPassword(hash, "secret1") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
