package escrow

import (
	"context"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/orm"
	"github.com/settle-labs/settle/x"
	"github.com/settle-labs/settle/x/token"
)

const (
	initializeCost int64 = 300
	exchangeCost   int64 = 200
	cancelCost     int64 = 100

	// TagState is the tag key holding the record address.
	TagState = "escrow.state"
	// TagAction is the tag key holding the operation name.
	TagAction = "escrow.action"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The token controller must accept the authority granted by
// Authenticate, or no vault can ever be released.
func RegisterRoutes(r settle.Registry, auth x.Authenticator, control token.Controller) {
	bucket := NewBucket()
	r.Handle(&InitializeMsg{}, InitializeHandler{auth: auth, bucket: bucket, control: control})
	r.Handle(&ExchangeMsg{}, ExchangeHandler{auth: auth, bucket: bucket, control: control})
	r.Handle(&CancelMsg{}, CancelHandler{auth: auth, bucket: bucket, control: control})
}

func result(state settle.Address, action string) *settle.DeliverResult {
	return &settle.DeliverResult{
		Data: state,
		Tags: []settle.KVPair{
			settle.Tag(TagState, []byte(state.String())),
			settle.Tag(TagAction, []byte(action)),
		},
	}
}

// InitializeHandler opens a swap.
type InitializeHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ settle.Handler = InitializeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h InitializeHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &settle.CheckResult{GasAllocated: initializeCost}, nil
}

// Deliver creates the record and the vault and moves the offered amount
// into the vault.
func (h InitializeHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	msg, state, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	reserve, err := h.control.ChargeReserve(ctx, db, msg.Initializer)
	if err != nil {
		return nil, errors.Wrap(err, "record reserve")
	}
	escrow := Escrow{
		Initializer: msg.Initializer,
		Taker:       msg.Taker,
		Offered:     msg.Offered,
		Requested:   msg.Requested,
		Reserve:     reserve,
	}
	if err := h.bucket.Create(db, state, &escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	if err := h.control.CreateHolding(ctx, db, vault, state, msg.Offered.Ticker, msg.Initializer); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	source, err := token.AssociatedAddress(msg.Initializer, msg.Offered.Ticker)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(ctx, db, source, vault, msg.Initializer, msg.Offered); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return result(state, "initialize"), nil
}

// validate does all common pre-processing between Check and Deliver. It
// returns the record and vault addresses.
func (h InitializeHandler) validate(ctx context.Context, db settle.KVStore, tx settle.Tx) (*InitializeMsg, settle.Address, settle.Address, error) {
	var msg InitializeMsg
	if err := settle.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}

	state, _, err := StateAddress(msg.Initializer)
	if err != nil {
		return nil, nil, nil, err
	}
	vault, _, err := VaultAddress(msg.Initializer)
	if err != nil {
		return nil, nil, nil, err
	}
	switch ok, err := h.bucket.Has(db, state); {
	case err != nil:
		return nil, nil, nil, err
	case ok:
		return nil, nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow of %s already exists", msg.Initializer)
	}
	// The taker can only pay in a registered asset.
	if _, err := h.control.Asset(db, msg.Requested.Ticker); err != nil {
		return nil, nil, nil, errors.Wrap(err, "requested")
	}

	conf, err := token.LoadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	// The initializer pays the deposit and the reserves of both the
	// record and the vault.
	req := newRequirement(msg.Initializer)
	for _, c := range []coin.Coin{msg.Offered, conf.Reserve(), conf.Reserve()} {
		if err := req.add(c); err != nil {
			return nil, nil, nil, err
		}
	}
	if err := req.check(db, h.control); err != nil {
		return nil, nil, nil, err
	}
	return &msg, state, vault, nil
}

// ExchangeHandler settles a swap.
type ExchangeHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ settle.Handler = ExchangeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ExchangeHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &settle.CheckResult{GasAllocated: exchangeCost}, nil
}

// Deliver pays the initializer, releases the vault to the taker and
// removes both the vault and the record.
func (h ExchangeHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	escrow, state, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault, _, err := VaultAddress(escrow.Initializer)
	if err != nil {
		return nil, err
	}

	// The taker pays first, so that the deposit is never released
	// without the payment.
	source, err := token.AssociatedAddress(escrow.Taker, escrow.Requested.Ticker)
	if err != nil {
		return nil, err
	}
	dst, err := h.control.EnsureAssociated(ctx, db, escrow.Initializer, escrow.Requested.Ticker, escrow.Taker)
	if err != nil {
		return nil, errors.Wrap(err, "initializer holding")
	}
	if err := h.control.Transfer(ctx, db, source, dst, escrow.Taker, escrow.Requested); err != nil {
		return nil, errors.Wrap(err, "payment")
	}

	dst, err = h.control.EnsureAssociated(ctx, db, escrow.Taker, escrow.Offered.Ticker, escrow.Taker)
	if err != nil {
		return nil, errors.Wrap(err, "taker holding")
	}
	program := withProgramAuthority(ctx, state)
	if err := h.control.Transfer(program, db, vault, dst, state, escrow.Offered); err != nil {
		return nil, errors.Wrap(err, "release")
	}

	if err := closeEscrow(program, db, h.bucket, h.control, state, vault, escrow); err != nil {
		return nil, err
	}
	return result(state, "exchange"), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ExchangeHandler) validate(ctx context.Context, db settle.KVStore, tx settle.Tx) (*Escrow, settle.Address, error) {
	var msg ExchangeMsg
	if err := settle.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}

	escrow, state, err := loadEscrow(db, h.bucket, msg.Initializer)
	if err != nil {
		return nil, nil, err
	}
	if !escrow.Taker.Equals(msg.Taker) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the taker", msg.Taker)
	}
	if !escrow.Initializer.Equals(msg.Initializer) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the initializer", msg.Initializer)
	}
	if escrow.Offered.Ticker != msg.OfferedTicker {
		return nil, nil, errors.Wrapf(errors.ErrInput, "offered asset is %s, not %s", escrow.Offered.Ticker, msg.OfferedTicker)
	}
	if escrow.Requested.Ticker != msg.RequestedTicker {
		return nil, nil, errors.Wrapf(errors.ErrInput, "requested asset is %s, not %s", escrow.Requested.Ticker, msg.RequestedTicker)
	}

	conf, err := token.LoadConf(db)
	if err != nil {
		return nil, nil, err
	}
	// The taker pays the requested amount and the reserve of any
	// holding that must be created to receive either asset.
	req := newRequirement(escrow.Taker)
	if err := req.add(escrow.Requested); err != nil {
		return nil, nil, err
	}
	receivers := []struct {
		owner  settle.Address
		ticker string
	}{
		{escrow.Initializer, escrow.Requested.Ticker},
		{escrow.Taker, escrow.Offered.Ticker},
	}
	for i, r := range receivers {
		// The same holding is created only once.
		if i == 1 && r.owner.Equals(receivers[0].owner) && r.ticker == receivers[0].ticker {
			continue
		}
		switch ok, err := missing(db, h.control, r.owner, r.ticker); {
		case err != nil:
			return nil, nil, err
		case ok:
			if err := req.add(conf.Reserve()); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := req.check(db, h.control); err != nil {
		return nil, nil, err
	}
	return escrow, state, nil
}

// CancelHandler closes a swap and returns the deposit to the initializer.
type CancelHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ settle.Handler = CancelHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CancelHandler) Check(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &settle.CheckResult{GasAllocated: cancelCost}, nil
}

// Deliver returns the whole vault balance to the initializer and removes
// both the vault and the record.
func (h CancelHandler) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	escrow, state, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault, _, err := VaultAddress(escrow.Initializer)
	if err != nil {
		return nil, err
	}
	// Closing the vault moves its balance to the holding associated with
	// the initializer, which must exist.
	if _, err := h.control.EnsureAssociated(ctx, db, escrow.Initializer, escrow.Offered.Ticker, escrow.Initializer); err != nil {
		return nil, errors.Wrap(err, "initializer holding")
	}
	program := withProgramAuthority(ctx, state)
	if err := closeEscrow(program, db, h.bucket, h.control, state, vault, escrow); err != nil {
		return nil, err
	}
	return result(state, "cancel"), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CancelHandler) validate(ctx context.Context, db settle.KVStore, tx settle.Tx) (*Escrow, settle.Address, error) {
	var msg CancelMsg
	if err := settle.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}
	escrow, state, err := loadEscrow(db, h.bucket, msg.Initializer)
	if err != nil {
		return nil, nil, err
	}
	if !escrow.Initializer.Equals(msg.Initializer) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the initializer", msg.Initializer)
	}

	switch ok, err := missing(db, h.control, escrow.Initializer, escrow.Offered.Ticker); {
	case err != nil:
		return nil, nil, err
	case ok:
		conf, err := token.LoadConf(db)
		if err != nil {
			return nil, nil, err
		}
		req := newRequirement(escrow.Initializer)
		if err := req.add(conf.Reserve()); err != nil {
			return nil, nil, err
		}
		if err := req.check(db, h.control); err != nil {
			return nil, nil, err
		}
	}
	return escrow, state, nil
}

// loadEscrow returns the record of given initializer and its address.
func loadEscrow(db settle.ReadOnlyKVStore, bucket orm.ModelBucket, initializer settle.Address) (*Escrow, settle.Address, error) {
	state, _, err := StateAddress(initializer)
	if err != nil {
		return nil, nil, err
	}
	var escrow Escrow
	if err := bucket.One(db, state, &escrow); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	return &escrow, state, nil
}

// closeEscrow closes the vault and removes the record. Any vault balance
// and both reserves go to the initializer. The context must grant the
// record address.
func closeEscrow(ctx context.Context, db settle.KVStore, bucket orm.ModelBucket, control token.Controller, state, vault settle.Address, escrow *Escrow) error {
	if err := control.Close(ctx, db, vault, escrow.Initializer, state); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := bucket.Delete(db, state); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	if err := control.RefundReserve(db, escrow.Initializer, escrow.Reserve); err != nil {
		return errors.Wrap(err, "record reserve")
	}
	return nil
}
