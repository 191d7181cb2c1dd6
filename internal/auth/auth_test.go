package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword("secret123", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken(42, "alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(1, "bob", "viewer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := NewJWTService("s").ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
