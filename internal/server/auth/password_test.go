package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Check(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "s3cret" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash: %q", hash)
	}

	ok, err := CheckPassword(hash, "s3cret")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = CheckPassword(hash, "wrong")
	if err != nil || ok {
		t.Fatalf("expected mismatch without error, got ok=%v err=%v", ok, err)
	}
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw", 99)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost != DefaultPasswordCost {
		t.Fatalf("cost = %d, want %d", cost, DefaultPasswordCost)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := CheckPassword("not-a-hash", "pw"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	a := HashToken("token-a")
	if len(a) != 64 {
		t.Fatalf("digest length = %d, want 64", len(a))
	}
	if a != HashToken("token-a") {
		t.Fatal("digest must be deterministic")
	}
	if a == HashToken("token-b") {
		t.Fatal("different tokens must have different digests")
	}
}
