package crypto_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	commoncrypto "github.com/pmorel/tasklane/internal/common/crypto"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := commoncrypto.NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("pw1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "pw1" || hash == "" {
		t.Error("expected a bcrypt digest, not the plaintext")
	}

	if err := hasher.Compare(hash, "pw1"); err != nil {
		t.Errorf("expected matching password to compare, got %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Error("expected mismatching password to fail")
	}
}

func TestBcryptHasher_SaltedDigestsDiffer(t *testing.T) {
	hasher := commoncrypto.NewBcryptHasherWithCost(bcrypt.MinCost)

	h1, _ := hasher.Hash("pw1")
	h2, _ := hasher.Hash("pw1")
	if h1 == h2 {
		t.Error("expected distinct salts per hash")
	}
}

func TestUUIDGenerator(t *testing.T) {
	gen := commoncrypto.NewUUIDGenerator()

	a, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := gen.NewID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty ids, got %q and %q", a, b)
	}
}
