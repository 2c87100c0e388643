package ctoken

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/x"
)

const (
	createAccountCost = 100
	applyPendingCost  = 50
)

// RegisterRoutes registers the ledger message handlers.
func RegisterRoutes(r cescrow.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreateAccountMsg{}, createAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ApplyPendingMsg{}, applyPendingHandler{auth: auth, ctrl: ctrl})
}

type createAccountHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h createAccountHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Mint(db, msg.Mint); err != nil {
		return nil, err
	}
	return cescrow.NewCheck(createAccountCost, ""), nil
}

func (h createAccountHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateAccount(db, msg.Owner, msg.Mint, msg.DecryptableZero)
	if err != nil {
		return nil, err
	}
	return &cescrow.DeliverResult{Data: addr}, nil
}

func (h createAccountHandler) validate(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "owner", msg.Owner); err != nil {
		return nil, err
	}
	return &msg, nil
}

type applyPendingHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h applyPendingHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	var msg ApplyPendingMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	a, err := h.ctrl.Account(db, msg.Account)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, "account owner", a.Owner); err != nil {
		return nil, err
	}
	return cescrow.NewCheck(applyPendingCost, ""), nil
}

func (h applyPendingHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	var msg ApplyPendingMsg
	if err := cescrow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.ApplyPending(ctx, db, h.auth, msg.Account, msg.NewDecryptableAvailable); err != nil {
		return nil, err
	}
	return &cescrow.DeliverResult{}, nil
}
