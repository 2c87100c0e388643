package app

import (
	"context"
	"fmt"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// Router allows us to register many handlers with different message
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]cescrow.Handler
}

var _ cescrow.Registry = (*Router)(nil)
var _ cescrow.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]cescrow.Handler, 10),
	}
}

// Handle adds a new Handler for the path of given message. Panics if the
// path is not valid or another Handler was already registered.
func (r *Router) Handle(m cescrow.Msg, h cescrow.Handler) {
	path := m.Path()
	if !cescrow.IsValidPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) handler(m cescrow.Msg) cescrow.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.ErrMsg.New("no message")
	}
	return r.handler(msg).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.ErrMsg.New("no message")
	}
	return r.handler(msg).Deliver(ctx, db, tx)
}

// notFoundHandler always returns ErrUnknownMsg for given path.
type notFoundHandler string

func (path notFoundHandler) Check(context.Context, cescrow.KVStore, cescrow.Tx) (*cescrow.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrUnknownMsg, "no handler for %q", string(path))
}

func (path notFoundHandler) Deliver(context.Context, cescrow.KVStore, cescrow.Tx) (*cescrow.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrUnknownMsg, "no handler for %q", string(path))
}
