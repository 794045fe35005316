package settle_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest/assert"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"registered error": {
			err:      errors.Wrap(errors.ErrNotFound, "escrow"),
			wantCode: errors.ErrNotFound.ABCICode(),
			wantLog:  "escrow: not found",
		},
		"unregistered error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"unregistered error in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "disk on fire",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := settle.DeliverTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, dres.Code)
			if !strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.wantLog) {
				t.Fatalf("unexpected deliver log: %q", dres.Log)
			}

			cres := settle.CheckTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, cres.Code)
			if !strings.HasPrefix(cres.Log, "cannot check tx: "+tc.wantLog) {
				t.Fatalf("unexpected check log: %q", cres.Log)
			}
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	tags := []settle.KVPair{settle.Tag("escrow.action", []byte("exchange"))}
	dres := settle.DeliverResult{Data: d, Log: msg, Tags: tags}
	ad := settle.DeliverOrError(&dres, nil, false)
	assert.Equal(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Equal(t, []byte("escrow.action"), ad.Tags[0].Key)

	parsed, err := settle.ParseDeliverOrError(ad)
	assert.Nil(t, err)
	assert.Equal(t, d, parsed.Data)

	c, gas := "aok", int64(12345)
	ac := settle.CheckOrError(settle.NewCheck(gas, c), nil, false)
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
}

func TestParseFailedDeliver(t *testing.T) {
	res := settle.DeliverOrError(nil, errors.Wrap(errors.ErrUnauthorized, "taker"), false)
	_, err := settle.ParseDeliverOrError(res)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
