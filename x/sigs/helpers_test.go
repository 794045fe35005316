package sigs

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/settletest"
)

// stdTx is a signed transaction whose sign bytes are a fixed payload.
type stdTx struct {
	settletest.Tx
	payload    []byte
	Signatures []StdSignature
}

var _ SignedTx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx:      settletest.Tx{Msg: &settletest.Msg{RoutePath: "test/sigs", Serialized: payload}},
		payload: payload,
	}
}

func (tx *stdTx) GetSignatures() []StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []settle.Address
}

var _ settle.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &settle.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &settle.DeliverResult{}, nil
}
