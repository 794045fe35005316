package token

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package so that they can be
// carried by a transaction.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&SendMsg{}, "token/SendMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "token/UpdateConfigurationMsg", nil)
}
