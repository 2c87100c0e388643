package app

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// cache wraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed cescrow.CommitKVStore
	deliver   cescrow.KVCacheWrap
	check     cescrow.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk or panics. It sets up
// the deliver and check caches.
func NewCommitStore(store cescrow.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (cescrow.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it to
// disk. It then regenerates new deliver/check caches.
func (cs *CommitStore) Commit() (cescrow.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return cescrow.CommitID{}, err
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() cescrow.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during
// the delivery phase.
func (cs *CommitStore) DeliverStore() cescrow.CacheableKVStore {
	return cs.deliver
}

// _ce: is a prefix for framework internal data
const chainIDKey = "_ce:chainID"

// mustLoadChainID returns the chain id stored if any, panics on db
// error.
func mustLoadChainID(kv cescrow.ReadOnlyKVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores a chain id in the kv store. Returns error if
// already set, or invalid name.
func saveChainID(kv cescrow.KVStore, chainID string) error {
	if !cescrow.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
