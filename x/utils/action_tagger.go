package utils

import (
	"context"

	"github.com/settle-labs/settle"
)

// ActionTagger will inspect the message being executed and add a tag
// `action = msg.Path()` to every successful delivery, so clients have a
// standard way to search for and subscribe to escrow events.
type ActionTagger struct{}

var _ settle.Decorator = ActionTagger{}

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx context.Context, db settle.KVStore, tx settle.Tx, next settle.Checker) (*settle.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx context.Context, db settle.KVStore, tx settle.Tx, next settle.Deliverer) (*settle.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, settle.Tag(ActionKey, []byte(msg.Path())))
	return res, nil
}
