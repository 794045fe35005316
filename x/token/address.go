package token

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/pda"
)

// ProgramID is the identity all token addresses are derived under.
var ProgramID = pda.ProgramID("token")

// AssociatedAddress returns the address of the holding of given asset that
// is controlled by owner.
func AssociatedAddress(owner settle.Address, ticker string) (settle.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	addr, _, err := pda.FindAddress(ProgramID, owner, []byte(ticker))
	if err != nil {
		return nil, errors.Wrap(err, "associated address")
	}
	return addr, nil
}

var reservePool = func() settle.Address {
	addr, _, err := pda.FindAddress(ProgramID, []byte("reserve"))
	if err != nil {
		panic(err)
	}
	return addr
}()

// ReservePoolAddress returns the address of the holding that keeps all
// reserves. The pool is its own authority and only this package can grant
// it.
func ReservePoolAddress() settle.Address {
	return reservePool.Clone()
}

type contextKey int // local to the token module

const (
	contextKeyPool contextKey = iota
)

func withPoolAuthority() context.Context {
	return context.WithValue(context.Background(), contextKeyPool, true)
}

func poolAuthorized(ctx context.Context, authority settle.Address) bool {
	granted, _ := ctx.Value(contextKeyPool).(bool)
	return granted && authority.Equals(reservePool)
}
