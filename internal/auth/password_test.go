package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("securepassword")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "securepassword" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Verify("securepassword", hash) {
		t.Error("Verify(plain, Hash(plain)) = false")
	}
	if h.Verify("otherpassword", hash) {
		t.Error("Verify(other, Hash(plain)) = true")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, _ := h.Hash("adminpass")
	b, _ := h.Hash("adminpass")
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	for _, bad := range []string{"", "not-a-hash", "$2a$04$short"} {
		if h.Verify("adminpass", bad) {
			t.Errorf("Verify against %q = true", bad)
		}
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	if got := NewHasher(0).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(99).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default %d", got, bcrypt.DefaultCost)
	}
}
