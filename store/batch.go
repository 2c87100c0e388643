package store

import (
	"github.com/iov-one/cescrow/errors"
)

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is either set or delete.
type Op struct {
	kind  opKind
	key   []byte
	value []byte // only for set
}

// SetOp is a helper to create a set operation.
func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

// DelOp is a helper to create a delete operation.
func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// Apply performs the operation on given store.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		return errors.ErrHuman.Newf("unknown op kind: %d", o.kind)
	}
}

// IsSetOp returns true if this operation sets a value.
func (o Op) IsSetOp() bool {
	return o.kind == setKind
}

// Key returns the key the operation applies to.
func (o Op) Key() []byte {
	return o.key
}

// Value returns the value written by a set operation.
func (o Op) Value() []byte {
	return o.value
}

// NonAtomicBatch just piles up ops and executes them later on the
// underlying store. It is only safe on top of another in-memory store,
// where a partial write cannot happen.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch to be later written to the
// store.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set adds a set operation to the batch.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

// Delete adds a delete operation to the batch.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write writes all queued operations to the underlying store and empties
// the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrap(err, "apply batch op")
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns all pending operations.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
