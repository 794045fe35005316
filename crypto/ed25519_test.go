package crypto

import (
	"bytes"
	"testing"
)

func TestSignVerify(t *testing.T) {
	key := GenPrivateKey()
	msg := []byte("escrow/initialize")

	sig := key.Sign(msg)
	pub := key.PublicKey()
	if err := pub.Validate(); err != nil {
		t.Fatalf("invalid public key: %s", err)
	}
	if !pub.Verify(msg, sig) {
		t.Fatal("signature does not verify")
	}
	if pub.Verify([]byte("escrow/cancel"), sig) {
		t.Fatal("signature verifies a different message")
	}
	other := GenPrivateKey().PublicKey()
	if other.Verify(msg, sig) {
		t.Fatal("signature verifies with a different key")
	}
	if pub.Verify(msg, sig[:10]) {
		t.Fatal("truncated signature verifies")
	}
	if !bytes.Equal(key.Address(), pub) {
		t.Fatal("address must be the public key")
	}
}

func TestDeterministicKeys(t *testing.T) {
	a := PrivateKeyFromSeed([]byte("alice"))
	b := PrivateKeyFromSeed([]byte("alice"))
	c := PrivateKeyFromSeed([]byte("bob"))
	if !a.Address().Equals(b.Address()) {
		t.Fatal("same seed must produce the same key")
	}
	if a.Address().Equals(c.Address()) {
		t.Fatal("different seeds must produce different keys")
	}

	restored, err := PrivateKeyFromRawSeed(a.Seed())
	if err != nil {
		t.Fatalf("cannot restore: %s", err)
	}
	if !restored.Address().Equals(a.Address()) {
		t.Fatal("restored key differs")
	}
	if _, err := PrivateKeyFromRawSeed([]byte("short")); err == nil {
		t.Fatal("short seed must be rejected")
	}
}
