package token

import (
	"encoding/json"
	"testing"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/settletest/assert"
	"github.com/settle-labs/settle/store"
)

const native = "NAT"

// genesis returns application options defining the NAT, ABC and XYZ
// assets and the given initial holdings.
func genesis(t testing.TB, reserve uint64, holdings ...GenesisHolding) settle.Options {
	t.Helper()
	return settle.Options{
		"conf": mustJSON(t, map[string]interface{}{
			"token": Configuration{NativeTicker: native, AccountReserve: reserve},
		}),
		"assets": mustJSON(t, []Asset{
			{Ticker: native, Name: "native"},
			{Ticker: "ABC"},
			{Ticker: "XYZ"},
		}),
		"holdings": mustJSON(t, holdings),
	}
}

func mustJSON(t testing.TB, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("cannot marshal %T: %s", v, err)
	}
	return raw
}

// newStore returns a store initialized from the genesis.
func newStore(t testing.TB, reserve uint64, holdings ...GenesisHolding) settle.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(genesis(t, reserve, holdings...), db))
	return db
}

func holding(owner settle.Address, coins ...coin.Coin) GenesisHolding {
	return GenesisHolding{Owner: owner, Coins: coins}
}

// balance returns the amount held by the holding associated with owner.
func balance(t testing.TB, db settle.ReadOnlyKVStore, owner settle.Address, ticker string) uint64 {
	t.Helper()
	addr, err := AssociatedAddress(owner, ticker)
	assert.Nil(t, err)
	c, err := NewController(nil).Balance(db, addr)
	assert.Nil(t, err)
	return c.Amount
}

func associated(t testing.TB, owner settle.Address, ticker string) settle.Address {
	t.Helper()
	addr, err := AssociatedAddress(owner, ticker)
	assert.Nil(t, err)
	return addr
}
