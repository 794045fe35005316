/*
Package pda derives addresses that no private key controls.

A derived address is the sha256 digest of a list of seeds, the owning
program identity and a fixed marker. Digests that happen to decode to a
valid ed25519 point are rejected, because somebody could hold the matching
private key. FindAddress appends a one byte "bump" seed, starting at 255 and
counting down, until an off-curve digest is found. Anyone can re-derive and
verify the address from public information.
*/
package pda

import (
	"crypto/sha256"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	marker = "ProgramDerivedAddress"
)

var (
	// ErrOnCurve is returned when the digest is a valid ed25519 public key.
	ErrOnCurve = errors.Register(40, "derived address on curve")
	// ErrNoViableBump is returned when no bump produces an off-curve
	// address.
	ErrNoViableBump = errors.Register(41, "no viable bump seed")
)

// ProgramID returns the identity of a program with the given name. The
// identity is used as the namespace of all addresses the program derives.
func ProgramID(name string) settle.Address {
	h := sha256.Sum256([]byte(name))
	return settle.Address(h[:])
}

// CreateAddress returns the address derived from the program and seeds.
// ErrOnCurve is returned if the result is a valid ed25519 public key.
func CreateAddress(program settle.Address, seeds ...[]byte) (settle.Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}

	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d exceeds %d bytes", i, MaxSeedLength)
		}
		h.Write(s)
	}
	h.Write(program)
	h.Write([]byte(marker))

	var pub [32]byte
	copy(pub[:], h.Sum(nil))
	if isOnCurve(&pub) {
		return nil, errors.Wrap(ErrOnCurve, "create address")
	}
	return settle.Address(pub[:]), nil
}

// FindAddress returns the first off-curve address derived from the program
// and seeds followed by a bump seed, together with that bump.
func FindAddress(program settle.Address, seeds ...[]byte) (settle.Address, uint8, error) {
	if len(seeds) > MaxSeeds-1 {
		return nil, 0, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := math.MaxUint8; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateAddress(program, withBump...)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case !ErrOnCurve.Is(err):
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(ErrNoViableBump, "find address")
}

// Verify returns true if addr is the address derived from the program,
// seeds and bump.
func Verify(addr, program settle.Address, bump uint8, seeds ...[]byte) bool {
	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, []byte{bump})
	got, err := CreateAddress(program, withBump...)
	return err == nil && got.Equals(addr)
}

// isOnCurve returns true if the bytes decode to a valid compressed ed25519
// point, the same test ed25519 verification applies to public keys.
func isOnCurve(pub *[32]byte) bool {
	var a edwards25519.ExtendedGroupElement
	return a.FromBytes(pub)
}
