package settletest

import (
	"context"

	"github.com/settle-labs/settle"
)

// Handler is a mock implementation of the settle.Handler interface. Each
// method call is counted.
type Handler struct {
	checkCall   int
	CheckResult settle.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult settle.DeliverResult
	DeliverErr    error
}

var _ settle.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the given key/value pair to the store and then returns
// Err (use nil for success).
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ settle.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &settle.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &settle.DeliverResult{}, h.Err
}

// PanicHandler always panics.
type PanicHandler struct {
	Msg string
}

var _ settle.Handler = PanicHandler{}

func (h PanicHandler) Check(context.Context, settle.KVStore, settle.Tx) (*settle.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(context.Context, settle.KVStore, settle.Tx) (*settle.DeliverResult, error) {
	panic(h.Msg)
}
