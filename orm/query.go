package orm

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// queryPrefix returns all models whose key starts with given prefix.
func queryPrefix(db cescrow.ReadOnlyKVStore, prefix []byte) ([]cescrow.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Release()

	var res []cescrow.Model
	for {
		key, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, cescrow.Model{Key: key, Value: value})
	}
}

// prefixEnd returns the first key that does not have given prefix, or nil
// if no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// RawQuery exposes the raw key value store. Key queries return the value
// stored under the exact key, prefix queries every pair under it.
type RawQuery struct{}

var _ cescrow.QueryHandler = RawQuery{}

// Query implements cescrow.QueryHandler.
func (RawQuery) Query(db cescrow.ReadOnlyKVStore, mod string, data []byte) ([]cescrow.Model, error) {
	switch mod {
	case cescrow.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []cescrow.Model{cescrow.Pair(data, value)}, nil
	case cescrow.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

// RegisterRawQuery makes the raw store available under the "/" path.
func RegisterRawQuery(qr cescrow.QueryRouter) {
	qr.Register("/", RawQuery{})
}
