package utils

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is used by ActionTagger as the Key in the Tag it appends.
const ActionKey = "action"

// ActionTagger adds a tag `action = msg.Path()` to every successful
// delivery, so clients can search and subscribe to escrow transitions.
type ActionTagger struct{}

var _ cescrow.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator.
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along.
func (ActionTagger) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Checker) (*cescrow.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Deliverer) (*cescrow.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
