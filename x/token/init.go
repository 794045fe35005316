package token

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/gconf"
)

// GenesisHolding is used to parse the initial balances of an owner.
type GenesisHolding struct {
	Owner settle.Address `json:"owner"`
	Coins []coin.Coin    `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ settle.Initializer = Initializer{}

// FromGenesis stores the configuration and assets, creates the reserve
// pool and mints all initial balances.
func (Initializer) FromGenesis(opts settle.Options, db settle.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confPkg, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var assets []Asset
	if err := opts.ReadOptions("assets", &assets); err != nil {
		return err
	}
	bucket := NewAssetBucket()
	for i := range assets {
		a := assets[i]
		// Supply is the sum of minted balances only.
		a.Supply = 0
		if err := bucket.Create(db, []byte(a.Ticker), &a); err != nil {
			return errors.Wrapf(err, "asset %q", a.Ticker)
		}
	}
	if ok, err := bucket.Has(db, []byte(conf.NativeTicker)); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(errors.ErrNotFound, "native asset %q", conf.NativeTicker)
	}

	pool := Holding{Authority: ReservePoolAddress(), Ticker: conf.NativeTicker}
	if err := NewHoldingBucket().Create(db, ReservePoolAddress(), &pool); err != nil {
		return errors.Wrap(err, "reserve pool")
	}

	var holdings []GenesisHolding
	if err := opts.ReadOptions("holdings", &holdings); err != nil {
		return err
	}
	control := NewController(nil)
	for _, h := range holdings {
		for _, c := range h.Coins {
			if err := control.Mint(db, h.Owner, c); err != nil {
				return errors.Wrapf(err, "holding of %s", h.Owner)
			}
		}
	}
	return nil
}

// Mint creates new funds in the holding of given asset associated with
// owner. The holding is created without a reserve if missing.
func (c BaseController) Mint(db settle.KVStore, owner settle.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	var asset Asset
	if err := c.assets.One(db, []byte(amount.Ticker), &asset); err != nil {
		return errors.Wrapf(err, "asset %q", amount.Ticker)
	}
	supply, err := coin.NewCoin(asset.Supply, asset.Ticker).Add(amount)
	if err != nil {
		return errors.Wrap(err, "supply")
	}
	asset.Supply = supply.Amount

	addr, err := AssociatedAddress(owner, amount.Ticker)
	if err != nil {
		return err
	}
	h, err := c.GetHolding(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		h = &Holding{Authority: owner, Ticker: amount.Ticker}
	case err != nil:
		return err
	}
	balance, err := h.Balance().Add(amount)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	h.Amount = balance.Amount

	if err := c.holdings.Put(db, addr, h); err != nil {
		return err
	}
	return c.assets.Put(db, []byte(asset.Ticker), &asset)
}
