package token

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/orm"
)

const (
	// HoldingBucket is where holdings are stored, keyed by address.
	HoldingBucket = "holdings"
	// AssetBucket is where assets are stored, keyed by ticker.
	AssetBucket = "assets"

	maxNameLength = 64
)

// Asset describes a fungible token.
type Asset struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Supply uint64 `json:"supply"`
}

var _ orm.Model = (*Asset)(nil)

func (a *Asset) Validate() error {
	var errs error
	if !coin.IsCC(a.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", a.Ticker))
	}
	if len(a.Name) > maxNameLength {
		errs = errors.AppendField(errs, "Name", errors.Wrap(errors.ErrInput, "too long"))
	}
	return errs
}

func (a *Asset) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Asset) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

// Holding stores the balance of a single asset. Only the authority can
// move funds out of it or close it.
type Holding struct {
	Authority settle.Address `json:"authority"`
	Ticker    string         `json:"ticker"`
	Amount    uint64         `json:"amount"`
	// Reserve is refunded when the holding is closed.
	Reserve uint64 `json:"reserve"`
}

var _ orm.Model = (*Holding)(nil)

func (h *Holding) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", h.Authority.Validate())
	if !coin.IsCC(h.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", h.Ticker))
	}
	return errs
}

func (h *Holding) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(h)
}

func (h *Holding) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, h)
}

// Balance returns the held amount as a coin.
func (h *Holding) Balance() coin.Coin {
	return coin.NewCoin(h.Amount, h.Ticker)
}

// NewHoldingBucket returns the bucket storing holdings.
func NewHoldingBucket() orm.ModelBucket {
	return orm.NewModelBucket(HoldingBucket)
}

// NewAssetBucket returns the bucket storing assets.
func NewAssetBucket() orm.ModelBucket {
	return orm.NewModelBucket(AssetBucket)
}

// RegisterQuery registers holdings as "/holdings" and assets as "/assets".
func RegisterQuery(qr settle.QueryRouter) {
	NewHoldingBucket().Register("holdings", qr)
	NewAssetBucket().Register("assets", qr)
}

// SumHoldings returns the total amount of given asset kept by all
// holdings, the reserve pool included. It equals the asset supply.
func SumHoldings(db settle.ReadOnlyKVStore, ticker string) (uint64, error) {
	models, err := NewHoldingBucket().Query(db, settle.PrefixQueryMod, nil)
	if err != nil {
		return 0, err
	}
	total := coin.NewCoin(0, ticker)
	for _, m := range models {
		var h Holding
		if err := h.Unmarshal(m.Value); err != nil {
			return 0, errors.Wrapf(errors.ErrModel, "holding %X: %s", m.Key, err)
		}
		if h.Ticker != ticker {
			continue
		}
		if total, err = total.Add(h.Balance()); err != nil {
			return 0, err
		}
	}
	return total.Amount, nil
}
