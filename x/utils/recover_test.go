package utils

import (
	"context"
	"testing"

	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest"
	"github.com/settle-labs/settle/settletest/assert"
	"github.com/settle-labs/settle/store"
)

func TestRecovery(t *testing.T) {
	h := settletest.PanicHandler{Msg: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	_, err := r.Check(ctx, s, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)

	_, err = r.Deliver(ctx, s, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)
}
