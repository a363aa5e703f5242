package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/geocoder89/classroom/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	hash, err := h.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "secret1" {
		t.Fatalf("hash must not equal the cleartext")
	}

	if err := h.CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	err = h.CheckPassword(hash, "secret2")
	if !errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashAcceptsMultibytePasswords(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	// 50 characters, 100 bytes
	long := strings.Repeat("é", 50)

	hash, err := h.HashPassword(long)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := h.CheckPassword(hash, long); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	// differs only past bcrypt's 72-byte window
	other := strings.Repeat("é", 49) + "è"
	if err := h.CheckPassword(hash, other); !errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashIsSalted(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	a, _ := h.HashPassword("same")
	b, _ := h.HashPassword("same")

	if a == b {
		t.Fatalf("two hashes of the same password should differ")
	}
}

func TestNewHasherFallsBackToDefaultCost(t *testing.T) {
	h := security.NewHasher(99)

	hash, err := h.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("got cost %d, want %d", cost, bcrypt.DefaultCost)
	}
}

func TestSessionTokensAreUniqueAndDigestIsStable(t *testing.T) {
	a, err := security.NewSessionToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	b, _ := security.NewSessionToken()

	if a == b {
		t.Fatalf("tokens should differ")
	}
	if len(a) < 40 {
		t.Fatalf("token too short: %q", a)
	}

	d := security.NewTokenDigester("k")
	if d.Digest(a) != d.Digest(a) {
		t.Fatalf("digest should be deterministic")
	}
	if d.Digest(a) == a {
		t.Fatalf("digest must not equal the raw token")
	}
	if security.NewTokenDigester("other").Digest(a) == d.Digest(a) {
		t.Fatalf("digest should depend on the secret")
	}
}
