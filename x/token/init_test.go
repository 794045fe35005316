package token

import (
	"testing"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest"
	"github.com/settle-labs/settle/settletest/assert"
	"github.com/settle-labs/settle/store"
)

func TestGenesis(t *testing.T) {
	alice := settletest.NewAddress()
	bob := settletest.NewAddress()

	db := newStore(t, 3,
		holding(alice, coin.NewCoin(100, "ABC"), coin.NewCoin(7, native)),
		holding(bob, coin.NewCoin(20, "ABC")),
	)

	assert.Equal(t, uint64(100), balance(t, db, alice, "ABC"))
	assert.Equal(t, uint64(7), balance(t, db, alice, native))
	assert.Equal(t, uint64(20), balance(t, db, bob, "ABC"))

	var asset Asset
	assert.Nil(t, NewAssetBucket().One(db, []byte("ABC"), &asset))
	assert.Equal(t, uint64(120), asset.Supply)

	pool, err := NewController(nil).GetHolding(db, ReservePoolAddress())
	assert.Nil(t, err)
	assert.Equal(t, ReservePoolAddress(), pool.Authority)
	assert.Equal(t, native, pool.Ticker)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		opts    func(settle.Options)
		wantErr *errors.Error
	}{
		"missing configuration": {
			opts:    func(o settle.Options) { delete(o, "conf") },
			wantErr: errors.ErrNotFound,
		},
		"native asset not defined": {
			opts: func(o settle.Options) {
				o["assets"] = mustJSON(t, []Asset{{Ticker: "ABC"}})
			},
			wantErr: errors.ErrNotFound,
		},
		"duplicated asset": {
			opts: func(o settle.Options) {
				o["assets"] = mustJSON(t, []Asset{{Ticker: native}, {Ticker: native}})
			},
			wantErr: errors.ErrDuplicate,
		},
		"invalid asset": {
			opts: func(o settle.Options) {
				o["assets"] = mustJSON(t, []Asset{{Ticker: native}, {Ticker: "abc"}})
			},
			wantErr: errors.ErrCurrency,
		},
		"holding of unknown asset": {
			opts: func(o settle.Options) {
				o["holdings"] = mustJSON(t, []GenesisHolding{
					holding(settletest.NewAddress(), coin.NewCoin(1, "QQQ")),
				})
			},
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			opts := genesis(t, 0)
			tc.opts(opts)
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
