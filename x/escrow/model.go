package escrow

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/orm"
)

// BucketName is where escrow records are stored, keyed by state address.
const BucketName = "escrow"

// Escrow describes one pending swap. A record is never updated. It is
// created by initialize and removed by either exchange or cancel.
type Escrow struct {
	Initializer settle.Address `json:"initializer"`
	Taker       settle.Address `json:"taker"`
	// Offered is kept by the vault until the swap is settled.
	Offered coin.Coin `json:"offered"`
	// Requested is what the taker pays to the initializer.
	Requested coin.Coin `json:"requested"`
	// Reserve paid by the initializer for this record. It is refunded
	// to the initializer when the record is removed.
	Reserve uint64 `json:"reserve"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Initializer", e.Initializer.Validate())
	errs = errors.AppendField(errs, "Taker", e.Taker.Validate())
	errs = errors.AppendField(errs, "Offered", positive(e.Offered))
	errs = errors.AppendField(errs, "Requested", positive(e.Requested))
	return errs
}

func (e *Escrow) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, e)
}

func positive(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}

// NewBucket returns the bucket storing escrow records.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr settle.QueryRouter) {
	NewBucket().Register("escrows", qr)
}
