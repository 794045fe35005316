package settletest

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivateKey()
}

// NewAddress returns the address of a new random key.
func NewAddress() settle.Address {
	return NewKey().Address()
}

// Ctx returns a context with a chain id and block height set, as the
// application does before calling any handler.
func Ctx() context.Context {
	ctx := settle.WithChainID(context.Background(), "test-chain")
	return settle.WithHeight(ctx, 1)
}
