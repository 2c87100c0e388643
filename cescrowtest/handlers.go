package cescrowtest

import (
	"context"

	"github.com/iov-one/cescrow"
)

// Handler is a mock implementation of the cescrow.Handler interface that
// counts its calls.
type Handler struct {
	checkCall   int
	CheckResult cescrow.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult cescrow.DeliverResult
	DeliverErr    error

	// Write, if set, is stored under its key on every delivery.
	Write *cescrow.Model
}

var _ cescrow.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	h.deliverCall++
	if h.Write != nil {
		if err := db.Set(h.Write.Key, h.Write.Value); err != nil {
			return nil, err
		}
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator is a mock implementation of the cescrow.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method is
// called and its result returned.
type Decorator struct {
	checkCall int
	CheckErr  error

	deliverCall int
	DeliverErr  error
}

var _ cescrow.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Checker) (*cescrow.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Deliverer) (*cescrow.DeliverResult, error) {
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

// Decorate returns a handler that calls given decorator around given
// handler.
func Decorate(h cescrow.Handler, d cescrow.Decorator) cescrow.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn cescrow.Handler
	dc cescrow.Decorator
}

func (d *decoratedHandler) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
