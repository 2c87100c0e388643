package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	amino "github.com/tendermint/go-amino"
)

const indexPrefix = "_i."

var refCodec = amino.NewCodec()

// Indexer calculates the secondary index key for a given object. A nil
// key means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object.
type MultiKeyIndexer func(Object) ([][]byte, error)

// Index is a secondary index of a bucket.
type Index interface {
	cescrow.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It must be called whenever an entity of
	// the bucket changes.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db cescrow.KVStore, prev Object, save Object) error

	// GetAt returns the primary keys of all entities indexed under given
	// value.
	GetAt(db cescrow.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// compactIndex stores all primary keys indexed under a value as a sorted
// set, serialized under a single key. A unique index stores a single
// primary key instead.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex constructs an index. Indexer calculates the index for an
// object, unique enforces a unique constraint on the index and refKey
// calculates the absolute db key for a primary key.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return NewMultiKeyIndex(name, func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		if err != nil || key == nil {
			return nil, err
		}
		return [][]byte{key}, nil
	}, unique, refKey)
}

// NewMultiKeyIndex constructs an index that can place a single object
// under many values.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     []byte(indexPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix.
func (i compactIndex) indexKey(value []byte) []byte {
	out := make([]byte, len(i.id)+len(value))
	copy(out, i.id)
	copy(out[len(i.id):], value)
	return out
}

func (i compactIndex) Update(db cescrow.KVStore, prev Object, save Object) error {
	var pk []byte
	switch {
	case prev == nil && save == nil:
		return errors.ErrHuman.New("update requires at least one object")
	case prev == nil:
		pk = save.Key()
	case save == nil:
		pk = prev.Key()
	default:
		if !bytes.Equal(prev.Key(), save.Key()) {
			return errors.ErrImmutable.New("cannot change the primary key of an indexed object")
		}
		pk = save.Key()
	}

	var before, after [][]byte
	var err error
	if prev != nil {
		if before, err = i.index(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if save != nil {
		if after, err = i.index(save); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}

	for _, v := range before {
		if !containsKey(after, v) {
			if err := i.remove(db, v, pk); err != nil {
				return err
			}
		}
	}
	for _, v := range after {
		if !containsKey(before, v) {
			if err := i.add(db, v, pk); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i compactIndex) add(db cescrow.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(err, "index")
	}
	if i.unique {
		if raw != nil && !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(key, pk)
	}
	refs, err := decodeRefs(raw)
	if err != nil {
		return err
	}
	refs = insertRef(refs, pk)
	bz, err := encodeRefs(refs)
	if err != nil {
		return err
	}
	return db.Set(key, bz)
}

func (i compactIndex) remove(db cescrow.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(err, "index")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s entry", i.name)
	}
	if i.unique {
		return db.Delete(key)
	}
	refs, err := decodeRefs(raw)
	if err != nil {
		return err
	}
	refs = removeRef(refs, pk)
	if len(refs) == 0 {
		return db.Delete(key)
	}
	bz, err := encodeRefs(refs)
	if err != nil {
		return err
	}
	return db.Set(key, bz)
}

func (i compactIndex) GetAt(db cescrow.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(err, "index")
	}
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	return decodeRefs(raw)
}

// Query returns the objects referenced by the index. KeyQueryMod returns
// all objects indexed under given value, PrefixQueryMod all objects
// indexed under any value having the given prefix.
func (i compactIndex) Query(db cescrow.ReadOnlyKVStore, mod string, data []byte) ([]cescrow.Model, error) {
	switch mod {
	case cescrow.KeyQueryMod:
		refs, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case cescrow.PrefixQueryMod:
		entries, err := queryPrefix(db, i.indexKey(data))
		if err != nil {
			return nil, err
		}
		var res []cescrow.Model
		for _, e := range entries {
			refs := [][]byte{e.Value}
			if !i.unique {
				if refs, err = decodeRefs(e.Value); err != nil {
					return nil, err
				}
			}
			models, err := i.loadRefs(db, refs)
			if err != nil {
				return nil, err
			}
			res = append(res, models...)
		}
		return res, nil
	default:
		return nil, errors.ErrInput.Newf("unknown query mod %q", mod)
	}
}

func (i compactIndex) loadRefs(db cescrow.ReadOnlyKVStore, refs [][]byte) ([]cescrow.Model, error) {
	res := make([]cescrow.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(err, "index reference")
		}
		res = append(res, cescrow.Model{Key: key, Value: value})
	}
	return res, nil
}

// multiRef is the serialized form of a non unique index entry.
type multiRef struct {
	Refs [][]byte
}

func decodeRefs(raw []byte) ([][]byte, error) {
	if raw == nil {
		return nil, nil
	}
	var m multiRef
	if err := refCodec.UnmarshalBinaryBare(raw, &m); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return m.Refs, nil
}

func encodeRefs(refs [][]byte) ([]byte, error) {
	bz, err := refCodec.MarshalBinaryBare(multiRef{Refs: refs})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// insertRef adds ref to the sorted set of refs.
func insertRef(refs [][]byte, ref []byte) [][]byte {
	n := sort.Search(len(refs), func(k int) bool { return bytes.Compare(refs[k], ref) >= 0 })
	if n < len(refs) && bytes.Equal(refs[n], ref) {
		return refs
	}
	refs = append(refs, nil)
	copy(refs[n+1:], refs[n:])
	refs[n] = ref
	return refs
}

func removeRef(refs [][]byte, ref []byte) [][]byte {
	for k, r := range refs {
		if bytes.Equal(r, ref) {
			return append(refs[:k], refs[k+1:]...)
		}
	}
	return refs
}

func containsKey(keys [][]byte, key []byte) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}
