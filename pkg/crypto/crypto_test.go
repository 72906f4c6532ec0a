package crypto

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Aa1!aa")
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}

	if hash == "Aa1!aa" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if !VerifyPassword(hash, "Aa1!aa") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "Bb2@bb") {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("Aa1!aa")
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	second, err := HashPassword("Aa1!aa")
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "whatever") {
		t.Fatal("expected malformed hash to fail verification")
	}
}
