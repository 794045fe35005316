package token

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/gconf"
	"github.com/settle-labs/settle/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r settle.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// SendHandler will handle sending tokens
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ settle.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check runs the whole transfer on the check store, so that a send that
// would fail is rejected before it enters a block.
func (h SendHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if _, err := h.send(ctx, db, tx); err != nil {
		return nil, err
	}
	return &settle.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to destination if all
// preconditions are met.
func (h SendHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	msg, err := h.send(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &settle.DeliverResult{
		Tags: []settle.KVPair{
			settle.Tag("token.source", []byte(msg.Source.String())),
			settle.Tag("token.destination", []byte(msg.Destination.String())),
		},
	}, nil
}

func (h SendHandler) send(ctx context.Context, db settle.KVStore, tx settle.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := settle.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source owner signature missing")
	}

	from, err := AssociatedAddress(msg.Source, msg.Amount.Ticker)
	if err != nil {
		return nil, err
	}
	to, err := h.control.EnsureAssociated(ctx, db, msg.Destination, msg.Amount.Ticker, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "destination holding")
	}
	if err := h.control.Transfer(ctx, db, from, to, msg.Source, msg.Amount); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewConfigHandler returns a handler updating the package configuration.
// The native ticker is fixed at genesis: reserves already charged are kept
// in that asset.
func NewConfigHandler(auth x.Authenticator) settle.Handler {
	var conf Configuration
	return configHandler{gconf.NewUpdateConfigurationHandler(confPkg, &conf, auth)}
}

type configHandler struct {
	gconf.UpdateConfigurationHandler
}

func (h configHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if err := nativeUnchanged(db, tx); err != nil {
		return nil, err
	}
	return h.UpdateConfigurationHandler.Check(ctx, db, tx)
}

func (h configHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	if err := nativeUnchanged(db, tx); err != nil {
		return nil, err
	}
	return h.UpdateConfigurationHandler.Deliver(ctx, db, tx)
}

func nativeUnchanged(db settle.KVStore, tx settle.Tx) error {
	var msg UpdateConfigurationMsg
	if err := settle.LoadMsg(tx, &msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	if msg.Patch.NativeTicker == "" {
		return nil
	}
	conf, err := LoadConf(db)
	if err != nil {
		return err
	}
	if msg.Patch.NativeTicker != conf.NativeTicker {
		return errors.Field("Patch.NativeTicker", errors.ErrImmutable, "native ticker is %s", conf.NativeTicker)
	}
	return nil
}
