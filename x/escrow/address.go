package escrow

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/pda"
)

// ProgramID is the identity all escrow addresses are derived under.
var ProgramID = pda.ProgramID("escrow")

const (
	stateSeed = "state"
	vaultSeed = "vault"
)

// StateAddress returns the address of the escrow record of given
// initializer, together with the bump used to derive it.
func StateAddress(initializer settle.Address) (settle.Address, uint8, error) {
	return derive(stateSeed, initializer)
}

// VaultAddress returns the address of the holding that keeps the deposit
// of given initializer, together with the bump used to derive it.
func VaultAddress(initializer settle.Address) (settle.Address, uint8, error) {
	return derive(vaultSeed, initializer)
}

func derive(tag string, initializer settle.Address) (settle.Address, uint8, error) {
	if err := initializer.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "initializer")
	}
	addr, bump, err := pda.FindAddress(ProgramID, []byte(tag), initializer)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s address", tag)
	}
	return addr, bump, nil
}

// VerifyState returns true if addr is the escrow record address of given
// initializer derived with given bump.
func VerifyState(addr, initializer settle.Address, bump uint8) bool {
	return pda.Verify(addr, ProgramID, bump, []byte(stateSeed), initializer)
}

// VerifyVault returns true if addr is the vault address of given
// initializer derived with given bump.
func VerifyVault(addr, initializer settle.Address, bump uint8) bool {
	return pda.Verify(addr, ProgramID, bump, []byte(vaultSeed), initializer)
}
