package sigs

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
	"github.com/iov-one/cescrow/x"
)

// RegisterRoutes registers the sequence bump handler.
func RegisterRoutes(r cescrow.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpSequenceHandler{
		b:    NewBucket(),
		auth: auth,
	})
}

type bumpSequenceHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

func (h *bumpSequenceHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &cescrow.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	user, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Signature verification already bumped the sequence by one.
	incr := int64(msg.Increment) - 1
	if incr == 0 {
		return &cescrow.DeliverResult{}, nil
	}
	user.Sequence += incr
	if _, err := h.b.Put(db, user.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &cescrow.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) validate(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	var user UserData
	if err := h.b.One(db, signer.Address(), &user); err != nil {
		return nil, nil, errors.Wrap(err, "no sequence")
	}
	next := user.Sequence + int64(msg.Increment)
	if next < user.Sequence || next > maxSequenceValue {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return &user, &msg, nil
}
