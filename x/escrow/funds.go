package escrow

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/x/token"
)

// requirement collects the amounts a single owner must be able to pay,
// one entry per asset.
type requirement struct {
	owner settle.Address
	need  []coin.Coin
}

func newRequirement(owner settle.Address) *requirement {
	return &requirement{owner: owner}
}

// add merges the amount with what is already required of the same asset.
func (r *requirement) add(c coin.Coin) error {
	if c.IsZero() {
		return nil
	}
	for i, n := range r.need {
		if n.SameType(c) {
			sum, err := n.Add(c)
			if err != nil {
				return err
			}
			r.need[i] = sum
			return nil
		}
	}
	r.need = append(r.need, c)
	return nil
}

// check returns ErrAmount unless every holding associated with the owner
// keeps at least the required amount. A missing holding keeps nothing.
func (r *requirement) check(db settle.ReadOnlyKVStore, control token.Controller) error {
	for _, n := range r.need {
		addr, err := token.AssociatedAddress(r.owner, n.Ticker)
		if err != nil {
			return err
		}
		balance, err := control.Balance(db, addr)
		switch {
		case errors.ErrNotFound.Is(err):
			balance = coin.NewCoin(0, n.Ticker)
		case err != nil:
			return err
		}
		if !balance.IsGTE(n) {
			return errors.Wrapf(errors.ErrAmount, "insufficient funds of %s: %s < %s", r.owner, balance, n)
		}
	}
	return nil
}

// missing returns true if the holding of ticker associated with owner does
// not exist yet.
func missing(db settle.ReadOnlyKVStore, control token.Controller, owner settle.Address, ticker string) (bool, error) {
	addr, err := token.AssociatedAddress(owner, ticker)
	if err != nil {
		return false, err
	}
	_, err = control.GetHolding(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return true, nil
	case err != nil:
		return false, err
	}
	return false, nil
}
