package token

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/orm"
	"github.com/settle-labs/settle/x"
)

// Controller is the token custody primitive other extensions build on.
type Controller interface {
	// Balance returns the amount kept by the holding at given address.
	Balance(db settle.ReadOnlyKVStore, addr settle.Address) (coin.Coin, error)
	// GetHolding returns the holding at given address or ErrNotFound.
	GetHolding(db settle.ReadOnlyKVStore, addr settle.Address) (*Holding, error)
	// Asset returns the registered asset of ticker or ErrNotFound.
	Asset(db settle.ReadOnlyKVStore, ticker string) (*Asset, error)
	// CreateHolding creates an empty holding at addr, controlled by
	// authority. The payer is charged the account reserve.
	CreateHolding(ctx context.Context, db settle.KVStore, addr, authority settle.Address, ticker string, payer settle.Address) error
	// EnsureAssociated returns the address of the holding of ticker
	// associated with owner, creating it on the payer's account if it
	// does not exist.
	EnsureAssociated(ctx context.Context, db settle.KVStore, owner settle.Address, ticker string, payer settle.Address) (settle.Address, error)
	// Transfer moves amount between two holdings. The context must
	// grant the authority and the authority must control the source.
	Transfer(ctx context.Context, db settle.KVStore, from, to, authority settle.Address, amount coin.Coin) error
	// Close removes the holding at account. Any residual balance is
	// moved to the holding associated with destination and the reserve
	// is refunded to destination.
	Close(ctx context.Context, db settle.KVStore, account, destination, authority settle.Address) error
	// ChargeReserve moves the account reserve from the payer to the
	// reserve pool and returns the charged amount.
	ChargeReserve(ctx context.Context, db settle.KVStore, payer settle.Address) (uint64, error)
	// RefundReserve moves amount from the reserve pool to the native
	// holding associated with destination.
	RefundReserve(db settle.KVStore, destination settle.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	auth     x.Authenticator
	holdings orm.ModelBucket
	assets   orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller that checks every authority against
// given authenticator.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		auth:     auth,
		holdings: NewHoldingBucket(),
		assets:   NewAssetBucket(),
	}
}

func (c BaseController) Balance(db settle.ReadOnlyKVStore, addr settle.Address) (coin.Coin, error) {
	h, err := c.GetHolding(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return h.Balance(), nil
}

func (c BaseController) GetHolding(db settle.ReadOnlyKVStore, addr settle.Address) (*Holding, error) {
	var h Holding
	if err := c.holdings.One(db, addr, &h); err != nil {
		return nil, errors.Wrapf(err, "holding %s", addr)
	}
	return &h, nil
}

func (c BaseController) Asset(db settle.ReadOnlyKVStore, ticker string) (*Asset, error) {
	var a Asset
	if err := c.assets.One(db, []byte(ticker), &a); err != nil {
		return nil, errors.Wrapf(err, "asset %q", ticker)
	}
	return &a, nil
}

func (c BaseController) CreateHolding(ctx context.Context, db settle.KVStore, addr, authority settle.Address, ticker string, payer settle.Address) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "holding address")
	}
	if _, err := c.Asset(db, ticker); err != nil {
		return err
	}
	switch ok, err := c.holdings.Has(db, addr); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(errors.ErrDuplicate, "holding %s", addr)
	}

	reserve, err := c.ChargeReserve(ctx, db, payer)
	if err != nil {
		return errors.Wrap(err, "holding reserve")
	}
	h := Holding{
		Authority: authority,
		Ticker:    ticker,
		Reserve:   reserve,
	}
	return c.holdings.Create(db, addr, &h)
}

func (c BaseController) EnsureAssociated(ctx context.Context, db settle.KVStore, owner settle.Address, ticker string, payer settle.Address) (settle.Address, error) {
	addr, err := AssociatedAddress(owner, ticker)
	if err != nil {
		return nil, err
	}
	switch ok, err := c.holdings.Has(db, addr); {
	case err != nil:
		return nil, err
	case ok:
		return addr, nil
	}
	if err := c.CreateHolding(ctx, db, addr, owner, ticker, payer); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c BaseController) Transfer(ctx context.Context, db settle.KVStore, from, to, authority settle.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non positive transfer %s", amount)
	}

	src, err := c.authorized(ctx, db, from, authority)
	if err != nil {
		return err
	}
	if src.Ticker != amount.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "holding %s keeps %s, not %s", from, src.Ticker, amount.Ticker)
	}
	if src.Amount < amount.Amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: %s < %s", src.Balance(), amount)
	}
	if from.Equals(to) {
		return nil
	}

	dst, err := c.GetHolding(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if dst.Ticker != amount.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "holding %s keeps %s, not %s", to, dst.Ticker, amount.Ticker)
	}
	credited, err := dst.Balance().Add(amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}

	src.Amount -= amount.Amount
	dst.Amount = credited.Amount
	if err := c.holdings.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.holdings.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c BaseController) Close(ctx context.Context, db settle.KVStore, account, destination, authority settle.Address) error {
	h, err := c.authorized(ctx, db, account, authority)
	if err != nil {
		return err
	}
	if h.Amount > 0 {
		to, err := AssociatedAddress(destination, h.Ticker)
		if err != nil {
			return err
		}
		if err := c.Transfer(ctx, db, account, to, authority, h.Balance()); err != nil {
			return errors.Wrap(err, "residual balance")
		}
	}
	if err := c.holdings.Delete(db, account); err != nil {
		return err
	}
	if err := c.RefundReserve(db, destination, h.Reserve); err != nil {
		return errors.Wrap(err, "holding reserve")
	}
	return nil
}

func (c BaseController) ChargeReserve(ctx context.Context, db settle.KVStore, payer settle.Address) (uint64, error) {
	conf, err := LoadConf(db)
	if err != nil {
		return 0, err
	}
	if conf.AccountReserve == 0 {
		return 0, nil
	}
	from, err := AssociatedAddress(payer, conf.NativeTicker)
	if err != nil {
		return 0, errors.Wrap(err, "payer")
	}
	if err := c.Transfer(ctx, db, from, ReservePoolAddress(), payer, conf.Reserve()); err != nil {
		return 0, err
	}
	return conf.AccountReserve, nil
}

func (c BaseController) RefundReserve(db settle.KVStore, destination settle.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	conf, err := LoadConf(db)
	if err != nil {
		return err
	}
	to, err := AssociatedAddress(destination, conf.NativeTicker)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	// A refund into a missing holding creates it without a reserve, so
	// that the refund itself never fails for lack of funds.
	switch ok, err := c.holdings.Has(db, to); {
	case err != nil:
		return err
	case !ok:
		h := Holding{Authority: destination, Ticker: conf.NativeTicker}
		if err := c.holdings.Create(db, to, &h); err != nil {
			return err
		}
	}
	pool := ReservePoolAddress()
	return c.Transfer(withPoolAuthority(), db, pool, to, pool, coin.NewCoin(amount, conf.NativeTicker))
}

// authorized returns the holding at addr if the context grants the
// authority and the authority controls the holding.
func (c BaseController) authorized(ctx context.Context, db settle.ReadOnlyKVStore, addr, authority settle.Address) (*Holding, error) {
	h, err := c.GetHolding(db, addr)
	if err != nil {
		return nil, err
	}
	if !h.Authority.Equals(authority) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s does not control holding %s", authority, addr)
	}
	if !c.auth.HasAddress(ctx, authority) && !poolAuthorized(ctx, authority) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "authority %s not granted", authority)
	}
	return h, nil
}
