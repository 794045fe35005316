package crypto

import (
	"crypto/sha256"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key. Its bytes are also the address of the
// key holder.
type PublicKey []byte

// Verify verifies the signature was created with this message and public
// key.
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Address returns the address controlled by this key.
func (p PublicKey) Address() settle.Address {
	return settle.Address(p).Clone()
}

// Validate ensures the key has the expected size.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "invalid public key length %d", len(p))
	}
	return nil
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivateKey returns a random new private key.
func GenPrivateKey() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: priv}
}

// PrivateKeyFromSeed will deterministically generate a private key from a
// given seed. Use if you have a strong source of external randomness, or
// for deterministic keys in test cases. Seed of any length is accepted and
// hashed into the 32 byte ed25519 seed.
func PrivateKeyFromSeed(seed []byte) *PrivateKey {
	s := sha256.Sum256(seed)
	return &PrivateKey{key: ed25519.NewKeyFromSeed(s[:])}
}

// Sign returns a matching signature for this private key.
func (p *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(p.key, message)
}

// PublicKey returns the corresponding PublicKey.
func (p *PrivateKey) PublicKey() PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// Address returns the address controlled by this key.
func (p *PrivateKey) Address() settle.Address {
	return p.PublicKey().Address()
}

// Seed returns the 32 byte seed this key was derived from. Keep it secret.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// PrivateKeyFromRawSeed rebuilds a key from the value returned by Seed.
func PrivateKeyFromRawSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid seed length %d", len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}
