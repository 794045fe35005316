package settletest

import (
	"context"

	"github.com/settle-labs/settle"
)

// Decorator is a mock implementation of the settle.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method is
// called and its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ settle.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, db settle.KVStore, tx settle.Tx, next settle.Checker) (*settle.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx, next settle.Deliverer) (*settle.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with one decorator and returns it as a single
// handler.
func Decorate(h settle.Handler, d settle.Decorator) settle.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn settle.Handler
	dc settle.Decorator
}

var _ settle.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
