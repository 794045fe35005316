package settletest

import (
	"context"
	"fmt"

	"github.com/settle-labs/settle"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses. You can use
// either Signer or Signers (or both) attributes to reference addresses.
// Each time all signers (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer settle.Address

	// Signers represents an authentication of multiple signers.
	Signers []settle.Address
}

func (a *Auth) GetSigners(context.Context) []settle.Address {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr settle.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetSigners(ctx context.Context, signers ...settle.Address) context.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx context.Context) []settle.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	signers, ok := val.([]settle.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []settle.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr settle.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
