package sigs

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx context.Context, signers []settle.Address) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate grants every address that signed the current transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx context.Context) []settle.Address {
	val, _ := ctx.Value(contextKeySigners).([]settle.Address)
	return val
}

// HasAddress returns true if the address signed the current Context.
func (a Authenticate) HasAddress(ctx context.Context, addr settle.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
