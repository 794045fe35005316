package token

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/gconf"
)

// confPkg is the name configuration is stored under.
const confPkg = "token"

// Configuration of the token package, loaded from the genesis "conf"
// section.
type Configuration struct {
	// Owner can update the configuration. Optional.
	Owner settle.Address `json:"owner"`
	// NativeTicker is the asset reserves are paid in.
	NativeTicker string `json:"native_ticker"`
	// AccountReserve is charged for every created record.
	AccountReserve uint64 `json:"account_reserve"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
	}
	if !coin.IsCC(c.NativeTicker) {
		return errors.Wrapf(errors.ErrCurrency, "native ticker %q", c.NativeTicker)
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) GetOwner() settle.Address {
	return c.Owner
}

// Reserve returns the reserve charged per record as a coin.
func (c *Configuration) Reserve() coin.Coin {
	return coin.NewCoin(c.AccountReserve, c.NativeTicker)
}

// LoadConf returns the configuration of this package.
func LoadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// SaveConf stores the configuration of this package.
func SaveConf(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, confPkg, conf)
}
