package app

import (
	"context"
	"testing"

	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest"
	"github.com/settle-labs/settle/settletest/assert"
)

func TestRouter(t *testing.T) {
	var (
		ctx = context.Background()
		r   = NewRouter()

		good    = &settletest.Handler{}
		failing = &settletest.Handler{
			CheckErr:   errors.ErrAmount,
			DeliverErr: errors.ErrAmount,
		}
	)

	r.Handle(&settletest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&settletest.Msg{RoutePath: "test/failing"}, failing)

	assert.Panics(t, func() {
		r.Handle(&settletest.Msg{RoutePath: "test/good"}, good)
	})
	assert.Panics(t, func() {
		r.Handle(&settletest.Msg{RoutePath: "l:7"}, good)
	})

	tx := &settletest.Tx{Msg: &settletest.Msg{RoutePath: "test/good"}}
	if _, err := r.Check(ctx, nil, tx); err != nil {
		t.Fatalf("check: %s", err)
	}
	if _, err := r.Deliver(ctx, nil, tx); err != nil {
		t.Fatalf("deliver: %s", err)
	}
	assert.Equal(t, 2, good.CallCount())

	tx = &settletest.Tx{Msg: &settletest.Msg{RoutePath: "test/failing"}}
	_, err := r.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrAmount, err)
	assert.Equal(t, 1, failing.DeliverCallCount())

	tx = &settletest.Tx{Msg: &settletest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)

	tx = &settletest.Tx{Err: errors.ErrInput}
	_, err = r.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrInput, err)

	assert.Equal(t, 2, good.CallCount())
}
