package gconf

import (
	"context"
	"reflect"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/x"
)

// OwnedConfig must have an Owner. A configuration update message must be
// signed by the owner in order to be authorized to apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() settle.Address
}

// UpdateConfigurationHandler applies a patch carried by a message to the
// stored configuration of a package.
type UpdateConfigurationHandler struct {
	pkg    string
	// config is only used to create new instances of the configuration.
	config OwnedConfig
	auth   x.Authenticator
}

var _ settle.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message. The message must have a "Patch" field of the
// same type as the configuration. Zero value fields of the patch are
// ignored.
//
// The configuration must already exist, created via genesis. To pass
// authentication step, each message must be signed by the current
// configuration owner.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx context.Context, store settle.KVStore, tx settle.Tx) (*settle.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &settle.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx context.Context, store settle.KVStore, tx settle.Tx) (*settle.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &settle.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx context.Context, store settle.KVStore, tx settle.Tx) error {
	config := reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
	if err := Load(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	owner := config.GetOwner()
	if len(owner) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrMsg, "want %T patch, got %T", config, payload)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field
// holding a configuration value. A pointer to that field is returned.
func patchPayload(tx settle.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is required`)
	}
	if field.Kind() != reflect.Ptr {
		field = field.Addr()
	} else if field.IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
