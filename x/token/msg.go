package token

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
)

const (
	pathSendMsg                = "token/send"
	pathUpdateConfigurationMsg = "token/update_configuration"

	sendTxCost int64 = 100
)

// SendMsg moves funds between the holdings associated with two owners.
type SendMsg struct {
	Source      settle.Address `json:"source"`
	Destination settle.Address `json:"destination"`
	Amount      coin.Coin      `json:"amount"`
}

var _ settle.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if err := m.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// UpdateConfigurationMsg patches the configuration of this package. Zero
// value fields of the patch are ignored.
type UpdateConfigurationMsg struct {
	Patch Configuration `json:"patch"`
}

var _ settle.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Field("Patch.Owner", err, "invalid owner")
		}
	}
	if m.Patch.NativeTicker != "" && !coin.IsCC(m.Patch.NativeTicker) {
		return errors.Field("Patch.NativeTicker", errors.ErrCurrency, "invalid ticker %q", m.Patch.NativeTicker)
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
