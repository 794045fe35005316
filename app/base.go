package app

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also runs transactions: raw bytes are decoded
// and handed to a single handler, usually a router behind decorators.
type BaseApp struct {
	*StoreApp
	decoder settle.TxDecoder
	handler settle.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application running every transaction through
// handler. In debug mode error results carry stack traces.
func NewBaseApp(store *StoreApp, decoder settle.TxDecoder, handler settle.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, ctx, err := b.prepare(txBytes, "deliver_tx")
	if err != nil {
		return settle.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return settle.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, ctx, err := b.prepare(txBytes, "check_tx")
	if err != nil {
		return settle.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return settle.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context tagged
// for the given phase.
func (b BaseApp) prepare(raw []byte, phase string) (settle.Tx, context.Context, error) {
	tx, err := b.decode(raw)
	if err != nil {
		return nil, nil, err
	}
	ctx := settle.WithLogInfo(b.BlockContext(), "call", phase, "path", settle.GetPath(tx))
	return tx, ctx, nil
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(raw []byte) (tx settle.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
