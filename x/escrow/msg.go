package escrow

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
)

const (
	pathInitializeMsg = "escrow/initialize"
	pathExchangeMsg   = "escrow/exchange"
	pathCancelMsg     = "escrow/cancel"
)

// InitializeMsg opens a swap. The initializer deposits Offered and accepts
// Requested from Taker in exchange.
type InitializeMsg struct {
	Initializer settle.Address `json:"initializer"`
	Taker       settle.Address `json:"taker"`
	Offered     coin.Coin      `json:"offered"`
	Requested   coin.Coin      `json:"requested"`
}

var _ settle.Msg = (*InitializeMsg)(nil)

// Path returns the routing path for this message
func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

// Validate makes sure that this is sensible
func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	errs = errors.AppendField(errs, "Offered", positive(m.Offered))
	errs = errors.AppendField(errs, "Requested", positive(m.Requested))
	return errs
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ExchangeMsg settles the swap opened by Initializer. Both tickers must
// match the record so that a taker cannot be tricked into settling a
// different swap than the one it inspected. Amounts are always taken from
// the record.
type ExchangeMsg struct {
	Taker           settle.Address `json:"taker"`
	Initializer     settle.Address `json:"initializer"`
	OfferedTicker   string         `json:"offered_ticker"`
	RequestedTicker string         `json:"requested_ticker"`
}

var _ settle.Msg = (*ExchangeMsg)(nil)

func (ExchangeMsg) Path() string {
	return pathExchangeMsg
}

func (m *ExchangeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	if !coin.IsCC(m.OfferedTicker) {
		errs = errors.AppendField(errs, "OfferedTicker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.OfferedTicker))
	}
	if !coin.IsCC(m.RequestedTicker) {
		errs = errors.AppendField(errs, "RequestedTicker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.RequestedTicker))
	}
	return errs
}

func (m *ExchangeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ExchangeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// CancelMsg closes the swap opened by Initializer and returns the deposit.
type CancelMsg struct {
	Initializer settle.Address `json:"initializer"`
}

var _ settle.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return errors.AppendField(nil, "Initializer", m.Initializer.Validate())
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
