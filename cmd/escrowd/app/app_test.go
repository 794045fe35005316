package escrowd_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/app"
	escrowd "github.com/settle-labs/settle/cmd/escrowd/app"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/crypto"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest/assert"
	"github.com/settle-labs/settle/x/escrow"
	"github.com/settle-labs/settle/x/sigs"
	"github.com/settle-labs/settle/x/token"
	"github.com/stretchr/testify/require"
	abcicli "github.com/tendermint/tendermint/abci/client"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "escrow-test"

// chain drives an in-memory node one block per transaction.
type chain struct {
	t      *testing.T
	app    abci.Application
	height int64
}

func newChain(t *testing.T, holdings ...token.GenesisHolding) *chain {
	t.Helper()
	myApp, err := escrowd.Application(escrowd.Stack(prometheus.NewRegistry()), "", log.NewNopLogger(), true)
	require.NoError(t, err)

	state := escrowd.GenesisState{
		Conf: map[string]interface{}{
			"token": token.Configuration{NativeTicker: "NAT", AccountReserve: 1},
		},
		Assets: []token.Asset{
			{Ticker: "NAT", Name: "native"},
			{Ticker: "ABC", Name: "alpha"},
			{Ticker: "XYZ", Name: "omega"},
		},
		Holdings: holdings,
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: raw})
	myApp.Commit()

	return &chain{t: t, app: myApp, height: 1}
}

func genesis(owner settle.Address, coins ...string) token.GenesisHolding {
	h := token.GenesisHolding{Owner: owner}
	for _, c := range coins {
		parsed, err := coin.ParseHumanFormat(c)
		if err != nil {
			panic(err)
		}
		h.Coins = append(h.Coins, parsed)
	}
	return h
}

// signedTx wraps msg and signs it with the next sequence of signer.
func (c *chain) signedTx(msg settle.Msg, signer *crypto.PrivateKey) []byte {
	c.t.Helper()
	tx := escrowd.NewTx(msg)
	require.NoError(c.t, tx.Sign(signer, chainID, c.nonce(signer.Address())))
	bz, err := tx.Marshal()
	require.NoError(c.t, err)
	return bz
}

// deliver runs msg in its own block and commits it.
func (c *chain) deliver(msg settle.Msg, signer *crypto.PrivateKey) abci.ResponseDeliverTx {
	c.t.Helper()
	bz := c.signedTx(msg, signer)

	chres := c.app.CheckTx(bz)
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{ChainID: chainID, Height: c.height}})
	dres := c.app.DeliverTx(bz)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()

	if chres.Code != dres.Code {
		c.t.Fatalf("check code %d (%s) differs from deliver code %d (%s)", chres.Code, chres.Log, dres.Code, dres.Log)
	}
	return dres
}

func (c *chain) mustDeliver(msg settle.Msg, signer *crypto.PrivateKey) abci.ResponseDeliverTx {
	c.t.Helper()
	res := c.deliver(msg, signer)
	if res.Code != 0 {
		c.t.Fatalf("%s failed with %d: %s", msg.Path(), res.Code, res.Log)
	}
	return res
}

// query returns the first model found under path for key.
func (c *chain) query(path string, key []byte, dest settle.Persistent) bool {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: key})
	if res.Code != 0 {
		c.t.Fatalf("query %s: %d %s", path, res.Code, res.Log)
	}
	var keys app.ResultSet
	require.NoError(c.t, keys.Unmarshal(res.Key))
	if len(keys.Results) == 0 {
		return false
	}
	require.NoError(c.t, app.UnmarshalOneResult(res.Value, dest))
	return true
}

func (c *chain) nonce(addr settle.Address) int64 {
	var user sigs.UserData
	if !c.query("/auth", addr, &user) {
		return 0
	}
	return user.Sequence
}

// balance returns the amount kept in the holding owner has for ticker.
func (c *chain) balance(owner settle.Address, ticker string) uint64 {
	c.t.Helper()
	addr, err := token.AssociatedAddress(owner, ticker)
	require.NoError(c.t, err)
	var h token.Holding
	if !c.query("/holdings", addr, &h) {
		return 0
	}
	return h.Amount
}

func (c *chain) holdingOf(addr settle.Address) (*token.Holding, bool) {
	var h token.Holding
	ok := c.query("/holdings", addr, &h)
	return &h, ok
}

func (c *chain) escrowOf(initializer settle.Address) (*escrow.Escrow, bool) {
	c.t.Helper()
	state, _, err := escrow.StateAddress(initializer)
	require.NoError(c.t, err)
	var e escrow.Escrow
	ok := c.query("/escrows", state, &e)
	return &e, ok
}

func (c *chain) supply(ticker string) uint64 {
	c.t.Helper()
	var total uint64
	res := c.app.Query(abci.RequestQuery{Path: "/holdings?prefix"})
	require.Equal(c.t, uint32(0), res.Code)
	var keys, values app.ResultSet
	require.NoError(c.t, keys.Unmarshal(res.Key))
	require.NoError(c.t, values.Unmarshal(res.Value))
	models, err := app.JoinResults(&keys, &values)
	require.NoError(c.t, err)
	for _, m := range models {
		var h token.Holding
		require.NoError(c.t, h.Unmarshal(m.Value))
		if h.Ticker == ticker {
			total += h.Amount
		}
	}
	return total
}

func assertCode(t *testing.T, want *errors.Error, res abci.ResponseDeliverTx) {
	t.Helper()
	if res.Code != want.ABCICode() {
		t.Fatalf("want code %d, got %d: %s", want.ABCICode(), res.Code, res.Log)
	}
}

type parties struct {
	alice, bob *crypto.PrivateKey
}

func newParties() parties {
	return parties{
		alice: crypto.PrivateKeyFromSeed([]byte("alice")),
		bob:   crypto.PrivateKeyFromSeed([]byte("bob")),
	}
}

func (p parties) chain(t *testing.T) *chain {
	return newChain(t,
		genesis(p.alice.Address(), "100 ABC", "10 NAT"),
		genesis(p.bob.Address(), "50 XYZ", "10 NAT"),
	)
}

func (p parties) initialize() *escrow.InitializeMsg {
	return &escrow.InitializeMsg{
		Initializer: p.alice.Address(),
		Taker:       p.bob.Address(),
		Offered:     coin.NewCoin(100, "ABC"),
		Requested:   coin.NewCoin(50, "XYZ"),
	}
}

func (p parties) exchange() *escrow.ExchangeMsg {
	return &escrow.ExchangeMsg{
		Taker:           p.bob.Address(),
		Initializer:     p.alice.Address(),
		OfferedTicker:   "ABC",
		RequestedTicker: "XYZ",
	}
}

func (p parties) cancel() *escrow.CancelMsg {
	return &escrow.CancelMsg{Initializer: p.alice.Address()}
}

func TestSwap(t *testing.T) {
	p := newParties()
	c := p.chain(t)

	res := c.mustDeliver(p.initialize(), p.alice)
	state, _, err := escrow.StateAddress(p.alice.Address())
	require.NoError(t, err)
	assert.Equal(t, []byte(state), res.Data)

	e, ok := c.escrowOf(p.alice.Address())
	assert.Equal(t, true, ok)
	assert.Equal(t, coin.NewCoin(100, "ABC"), e.Offered)
	assert.Equal(t, coin.NewCoin(50, "XYZ"), e.Requested)

	vault, _, err := escrow.VaultAddress(p.alice.Address())
	require.NoError(t, err)
	h, ok := c.holdingOf(vault)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(100), h.Amount)
	assert.Equal(t, state, h.Authority)
	assert.Equal(t, uint64(0), c.balance(p.alice.Address(), "ABC"))
	// record and vault reserves
	assert.Equal(t, uint64(8), c.balance(p.alice.Address(), "NAT"))

	res = c.mustDeliver(p.exchange(), p.bob)
	var action string
	for _, tag := range res.Tags {
		if string(tag.Key) == escrow.TagAction {
			action = string(tag.Value)
		}
	}
	assert.Equal(t, "exchange", action)

	assert.Equal(t, uint64(50), c.balance(p.alice.Address(), "XYZ"))
	assert.Equal(t, uint64(100), c.balance(p.bob.Address(), "ABC"))
	assert.Equal(t, uint64(0), c.balance(p.bob.Address(), "XYZ"))
	assert.Equal(t, uint64(10), c.balance(p.alice.Address(), "NAT"))
	// reserves of the two receiving holdings
	assert.Equal(t, uint64(8), c.balance(p.bob.Address(), "NAT"))

	_, ok = c.escrowOf(p.alice.Address())
	assert.Equal(t, false, ok)
	_, ok = c.holdingOf(vault)
	assert.Equal(t, false, ok)

	assert.Equal(t, uint64(100), c.supply("ABC"))
	assert.Equal(t, uint64(50), c.supply("XYZ"))
	assert.Equal(t, uint64(20), c.supply("NAT"))

	// Settled swap cannot be settled or cancelled again.
	assertCode(t, errors.ErrNotFound, c.deliver(p.exchange(), p.bob))
	assertCode(t, errors.ErrNotFound, c.deliver(p.cancel(), p.alice))
}

func TestCancelThenReinitialize(t *testing.T) {
	p := newParties()
	c := p.chain(t)

	c.mustDeliver(p.initialize(), p.alice)
	c.mustDeliver(p.cancel(), p.alice)

	assert.Equal(t, uint64(100), c.balance(p.alice.Address(), "ABC"))
	assert.Equal(t, uint64(10), c.balance(p.alice.Address(), "NAT"))
	assert.Equal(t, uint64(50), c.balance(p.bob.Address(), "XYZ"))
	_, ok := c.escrowOf(p.alice.Address())
	assert.Equal(t, false, ok)

	assertCode(t, errors.ErrNotFound, c.deliver(p.exchange(), p.bob))

	// The same addresses are derived again once the record is gone.
	c.mustDeliver(p.initialize(), p.alice)
	assertCode(t, errors.ErrDuplicate, c.deliver(p.initialize(), p.alice))
	c.mustDeliver(p.exchange(), p.bob)
	assert.Equal(t, uint64(100), c.balance(p.bob.Address(), "ABC"))
}

func TestRejectedSwapLeavesNoTrace(t *testing.T) {
	p := newParties()
	carol := crypto.PrivateKeyFromSeed([]byte("carol"))
	c := newChain(t,
		genesis(p.alice.Address(), "100 ABC", "10 NAT"),
		genesis(p.bob.Address(), "40 XYZ", "10 NAT"),
		genesis(carol.Address(), "50 XYZ", "10 NAT"),
	)
	c.mustDeliver(p.initialize(), p.alice)

	cases := map[string]struct {
		msg     settle.Msg
		signer  *crypto.PrivateKey
		wantErr *errors.Error
	}{
		"not the taker": {
			msg: &escrow.ExchangeMsg{
				Taker:           carol.Address(),
				Initializer:     p.alice.Address(),
				OfferedTicker:   "ABC",
				RequestedTicker: "XYZ",
			},
			signer:  carol,
			wantErr: errors.ErrUnauthorized,
		},
		"taker signs for someone else": {
			msg:     p.exchange(),
			signer:  carol,
			wantErr: errors.ErrUnauthorized,
		},
		"taker cannot pay": {
			msg:     p.exchange(),
			signer:  p.bob,
			wantErr: errors.ErrAmount,
		},
		"asset mismatch": {
			msg: &escrow.ExchangeMsg{
				Taker:           p.bob.Address(),
				Initializer:     p.alice.Address(),
				OfferedTicker:   "ABC",
				RequestedTicker: "NAT",
			},
			signer:  p.bob,
			wantErr: errors.ErrInput,
		},
		"cancel by taker": {
			msg:     p.cancel(),
			signer:  p.bob,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			c.t = t
			assertCode(t, tc.wantErr, c.deliver(tc.msg, tc.signer))

			e, ok := c.escrowOf(p.alice.Address())
			assert.Equal(t, true, ok)
			assert.Equal(t, coin.NewCoin(100, "ABC"), e.Offered)
			assert.Equal(t, uint64(40), c.balance(p.bob.Address(), "XYZ"))
			assert.Equal(t, uint64(50), c.balance(carol.Address(), "XYZ"))
			assert.Equal(t, uint64(10), c.balance(p.bob.Address(), "NAT"))
			assert.Equal(t, uint64(10), c.balance(carol.Address(), "NAT"))
			assert.Equal(t, uint64(0), c.balance(p.alice.Address(), "XYZ"))
		})
	}
}

func TestUnsignedTransactionRejected(t *testing.T) {
	p := newParties()
	c := p.chain(t)

	bz, err := escrowd.NewTx(p.initialize()).Marshal()
	require.NoError(t, err)
	res := c.app.CheckTx(bz)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// A signature for another chain does not verify.
	tx := escrowd.NewTx(p.initialize())
	require.NoError(t, tx.Sign(p.alice, "other-chain", 0))
	bz, err = tx.Marshal()
	require.NoError(t, err)
	res = c.app.CheckTx(bz)
	assert.Equal(t, false, res.Code == 0)

	_, ok := c.escrowOf(p.alice.Address())
	assert.Equal(t, false, ok)
}

func TestExchangeAndCancelRace(t *testing.T) {
	p := newParties()
	c := p.chain(t)
	c.mustDeliver(p.initialize(), p.alice)

	exchangeTx := c.signedTx(p.exchange(), p.bob)
	cancelTx := c.signedTx(p.cancel(), p.alice)

	client := abcicli.NewLocalClient(nil, c.app)

	// Both are valid on their own.
	for _, tx := range [][]byte{exchangeTx, cancelTx} {
		res, err := client.CheckTxSync(tx)
		require.NoError(t, err)
		require.Equal(t, uint32(0), res.Code, res.Log)
	}

	_, err := client.BeginBlockSync(abci.RequestBeginBlock{Header: abci.Header{ChainID: chainID, Height: c.height + 1}})
	require.NoError(t, err)

	codes := make([]uint32, 2)
	var wg sync.WaitGroup
	for i, tx := range [][]byte{exchangeTx, cancelTx} {
		wg.Add(1)
		go func(i int, tx []byte) {
			defer wg.Done()
			res, err := client.DeliverTxSync(tx)
			if err != nil {
				t.Error(err)
				return
			}
			codes[i] = res.Code
		}(i, tx)
	}
	wg.Wait()

	_, err = client.EndBlockSync(abci.RequestEndBlock{Height: c.height + 1})
	require.NoError(t, err)
	_, err = client.CommitSync()
	require.NoError(t, err)
	c.height++

	var succeeded int
	for _, code := range codes {
		switch code {
		case 0:
			succeeded++
		case errors.ErrNotFound.ABCICode():
		default:
			t.Fatalf("unexpected code %d", code)
		}
	}
	assert.Equal(t, 1, succeeded)

	_, ok := c.escrowOf(p.alice.Address())
	assert.Equal(t, false, ok)
	assert.Equal(t, uint64(100), c.supply("ABC"))
	assert.Equal(t, uint64(50), c.supply("XYZ"))
	assert.Equal(t, uint64(20), c.supply("NAT"))

	if codes[0] == 0 {
		assert.Equal(t, uint64(100), c.balance(p.bob.Address(), "ABC"))
		assert.Equal(t, uint64(50), c.balance(p.alice.Address(), "XYZ"))
	} else {
		assert.Equal(t, uint64(100), c.balance(p.alice.Address(), "ABC"))
		assert.Equal(t, uint64(50), c.balance(p.bob.Address(), "XYZ"))
	}
}

func TestTokenSend(t *testing.T) {
	p := newParties()
	c := p.chain(t)

	c.mustDeliver(&token.SendMsg{
		Source:      p.alice.Address(),
		Destination: p.bob.Address(),
		Amount:      coin.NewCoin(30, "ABC"),
	}, p.alice)

	assert.Equal(t, uint64(70), c.balance(p.alice.Address(), "ABC"))
	assert.Equal(t, uint64(30), c.balance(p.bob.Address(), "ABC"))
	assert.Equal(t, int64(1), c.nonce(p.alice.Address()))
	assert.Equal(t, uint64(100), c.supply("ABC"))
}
