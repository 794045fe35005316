package escrow

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/x"
)

type contextKey int // local to the escrow module

const (
	contextKeyProgram contextKey = iota
)

// withProgramAuthority grants the escrow record address as an authority.
// Only handlers of this package can call it, so only they can move funds
// out of a vault.
func withProgramAuthority(ctx context.Context, state settle.Address) context.Context {
	return context.WithValue(ctx, contextKeyProgram, state)
}

// Authenticate reads the authority granted by escrow handlers. It must be
// part of the authentication chain given to the token controller.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns the granted record address, if any.
func (Authenticate) GetSigners(ctx context.Context) []settle.Address {
	state, ok := ctx.Value(contextKeyProgram).(settle.Address)
	if !ok {
		return nil
	}
	return []settle.Address{state}
}

// HasAddress returns true if addr is the granted record address.
func (a Authenticate) HasAddress(ctx context.Context, addr settle.Address) bool {
	state, ok := ctx.Value(contextKeyProgram).(settle.Address)
	return ok && state.Equals(addr)
}
