package app

import (
	"context"
	"reflect"

	"github.com/iov-one/cescrow"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []cescrow.Decorator
}

/*
ChainDecorators takes a chain of decorators, and upon adding a final
Handler (often a Router), returns a Handler that will execute this whole
stack.

	app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(
		router,
	)
*/
func ChainDecorators(chain ...cescrow.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...cescrow.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := append(append([]cescrow.Decorator(nil), d.chain...), chain...)
	return Decorators{newChain}
}

// cutoffNil removes all nil values from given slice, in place.
func cutoffNil(ds []cescrow.Decorator) []cescrow.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler that will
// pass through the chain of decorators before calling the final Handler.
func (d Decorators) WithHandler(h cescrow.Handler) cescrow.Handler {
	// Start wrapping the handler from the last decorator, as the top of
	// the chain is executed first.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a specific
// Handler.
type step struct {
	d    cescrow.Decorator
	next cescrow.Handler
}

var _ cescrow.Handler = step{}

func (s step) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx) (*cescrow.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
