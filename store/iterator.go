package store

import (
	"bytes"

	"github.com/iov-one/cescrow/errors"
)

type direction int

const (
	ascending direction = iota
	descending
)

// cacheIterator merges the cached items of a cache wrap with the iterator
// of its parent store. Cached items shadow the parent values for the same
// key, deleted items hide them.
type cacheIterator struct {
	items []keyer
	idx   int
	dir   direction

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []keyer, parent Iterator, dir direction) (*cacheIterator, error) {
	it := &cacheIterator{
		items:  items,
		dir:    dir,
		parent: parent,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (it *cacheIterator) advanceParent() error {
	key, value, err := it.parent.Next()
	switch {
	case err == nil:
		it.parentKey, it.parentVal = key, value
	case errors.ErrIteratorDone.Is(err):
		it.parentKey, it.parentVal, it.parentDone = nil, nil, true
	default:
		return errors.Wrap(err, "parent iterator")
	}
	return nil
}

// compare returns the order of the cached key against the parent key in
// the iteration direction.
func (it *cacheIterator) compare(cached []byte) int {
	cmp := bytes.Compare(cached, it.parentKey)
	if it.dir == descending {
		return -cmp
	}
	return cmp
}

// Next returns the next key value pair, or ErrIteratorDone.
func (it *cacheIterator) Next() (key, value []byte, err error) {
	for {
		cachedDone := it.idx >= len(it.items)
		if cachedDone && it.parentDone {
			return nil, nil, errors.ErrIteratorDone
		}

		if cachedDone || (!it.parentDone && it.compare(it.items[it.idx].Key()) > 0) {
			key, value = it.parentKey, it.parentVal
			if err := it.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		item := it.items[it.idx]
		it.idx++
		if !it.parentDone && bytes.Equal(item.Key(), it.parentKey) {
			// The cached item shadows the parent entry.
			if err := it.advanceParent(); err != nil {
				return nil, nil, err
			}
		}
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

// Release releases the parent iterator and cached items.
func (it *cacheIterator) Release() {
	it.parent.Release()
	it.items = nil
}
