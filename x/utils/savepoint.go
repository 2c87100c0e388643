package utils

import (
	"context"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// Savepoint isolates all data written inside of the call. Changes are
// written to the parent store only if the call succeeds, otherwise
// discarded.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ cescrow.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator, but you must call
// OnCheck/OnDeliver so it will be triggered.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a savepoint.
func (s Savepoint) Check(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Checker) (*cescrow.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *cescrow.CheckResult
	err := Atomically(db, func(db cescrow.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver will optionally set a savepoint.
func (s Savepoint) Deliver(ctx context.Context, db cescrow.KVStore, tx cescrow.Tx, next cescrow.Deliverer) (*cescrow.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *cescrow.DeliverResult
	err := Atomically(db, func(db cescrow.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// Atomically runs fn on a cache wrap of db. The cache is written to db
// only when fn returns no error, and discarded otherwise. Stores that
// cannot be cache wrapped are passed to fn directly.
func Atomically(db cescrow.KVStore, fn func(cescrow.KVStore) error) error {
	cstore, ok := db.(cescrow.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
