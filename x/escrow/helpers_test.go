package escrow

import (
	"encoding/json"
	"testing"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/app"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest"
	"github.com/settle-labs/settle/settletest/assert"
	"github.com/settle-labs/settle/store"
	"github.com/settle-labs/settle/x"
	"github.com/settle-labs/settle/x/token"
	"github.com/settle-labs/settle/x/utils"
)

const native = "NAT"

// fixture is a store initialized with the NAT, ABC and XYZ assets and a
// handler stack routing all escrow messages.
type fixture struct {
	db      settle.CacheableKVStore
	auth    *settletest.CtxAuth
	control token.BaseController
	handler settle.Handler
}

func newFixture(t testing.TB, reserve uint64, holdings ...token.GenesisHolding) *fixture {
	t.Helper()

	opts := settle.Options{
		"conf": mustJSON(t, map[string]interface{}{
			"token": token.Configuration{NativeTicker: native, AccountReserve: reserve},
		}),
		"assets": mustJSON(t, []token.Asset{
			{Ticker: native, Name: "native"},
			{Ticker: "ABC"},
			{Ticker: "XYZ"},
		}),
		"holdings": mustJSON(t, holdings),
	}
	db := store.MemStore()
	assert.Nil(t, token.Initializer{}.FromGenesis(opts, db))

	auth := &settletest.CtxAuth{Key: "auth"}
	control := token.NewController(x.ChainAuth(auth, Authenticate{}))
	r := app.NewRouter()
	RegisterRoutes(r, auth, control)

	return &fixture{
		db:      db,
		auth:    auth,
		control: control,
		handler: app.ChainDecorators(
			utils.NewSavepoint().OnCheck().OnDeliver(),
		).WithHandler(r),
	}
}

// exec checks the message on a throwaway copy of the state and then
// delivers it. Both phases must agree.
func (f *fixture) exec(t testing.TB, msg settle.Msg, signers ...settle.Address) (*settle.DeliverResult, error) {
	t.Helper()
	ctx := f.auth.SetSigners(settletest.Ctx(), signers...)
	tx := &settletest.Tx{Msg: msg}

	cache := f.db.CacheWrap()
	_, checkErr := f.handler.Check(ctx, cache, tx)
	cache.Discard()

	res, err := f.handler.Deliver(ctx, f.db, tx)
	if (checkErr == nil) != (err == nil) {
		t.Fatalf("check and deliver disagree: %v != %v", checkErr, err)
	}
	return res, err
}

// mustExec is exec that fails the test on error.
func (f *fixture) mustExec(t testing.TB, msg settle.Msg, signers ...settle.Address) *settle.DeliverResult {
	t.Helper()
	res, err := f.exec(t, msg, signers...)
	if err != nil {
		t.Fatalf("%s: %+v", msg.Path(), err)
	}
	return res
}

// balance returns the amount held by the holding associated with owner or
// zero if there is no such holding.
func (f *fixture) balance(t testing.TB, owner settle.Address, ticker string) uint64 {
	t.Helper()
	addr, err := token.AssociatedAddress(owner, ticker)
	assert.Nil(t, err)
	return f.holdingBalance(t, addr)
}

func (f *fixture) holdingBalance(t testing.TB, addr settle.Address) uint64 {
	t.Helper()
	c, err := token.NewController(nil).Balance(f.db, addr)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(t, err)
	return c.Amount
}

// exists returns true if the holding at addr exists.
func (f *fixture) exists(t testing.TB, addr settle.Address) bool {
	t.Helper()
	_, err := token.NewController(nil).GetHolding(f.db, addr)
	if errors.ErrNotFound.Is(err) {
		return false
	}
	assert.Nil(t, err)
	return true
}

// escrowOf returns the record of given initializer or nil.
func (f *fixture) escrowOf(t testing.TB, initializer settle.Address) *Escrow {
	t.Helper()
	e, _, err := loadEscrow(f.db, NewBucket(), initializer)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	assert.Nil(t, err)
	return e
}

// snapshot returns all holdings and escrow records.
func (f *fixture) snapshot(t testing.TB) []settle.Model {
	t.Helper()
	holdings, err := token.NewHoldingBucket().Query(f.db, settle.PrefixQueryMod, nil)
	assert.Nil(t, err)
	escrows, err := NewBucket().Query(f.db, settle.PrefixQueryMod, nil)
	assert.Nil(t, err)
	return append(holdings, escrows...)
}

// supply returns the total amount of every asset kept by all holdings.
func (f *fixture) supply(t testing.TB) map[string]uint64 {
	t.Helper()
	res := make(map[string]uint64)
	for _, ticker := range []string{native, "ABC", "XYZ"} {
		sum, err := token.SumHoldings(f.db, ticker)
		assert.Nil(t, err)
		res[ticker] = sum
	}
	return res
}

func holding(owner settle.Address, coins ...coin.Coin) token.GenesisHolding {
	return token.GenesisHolding{Owner: owner, Coins: coins}
}

func mustJSON(t testing.TB, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("cannot marshal %T: %s", v, err)
	}
	return raw
}

func stateOf(t testing.TB, initializer settle.Address) settle.Address {
	t.Helper()
	addr, _, err := StateAddress(initializer)
	assert.Nil(t, err)
	return addr
}

func vaultOf(t testing.TB, initializer settle.Address) settle.Address {
	t.Helper()
	addr, _, err := VaultAddress(initializer)
	assert.Nil(t, err)
	return addr
}

