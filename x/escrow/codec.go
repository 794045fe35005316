package escrow

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package so that they can be
// carried by a transaction.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&InitializeMsg{}, "escrow/InitializeMsg", nil)
	c.RegisterConcrete(&ExchangeMsg{}, "escrow/ExchangeMsg", nil)
	c.RegisterConcrete(&CancelMsg{}, "escrow/CancelMsg", nil)
}
