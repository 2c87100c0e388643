package cescrow

// Store interfaces shared by all packages. All implementations live in the
// store package, extensions only ever see these interfaces.

// ReadOnlyKVStore is a simple interface to query data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is
	// exclusive. Start must be less than end, or the Iterator is
	// invalid. No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive. Start must be less than end, or the Iterator is
	// invalid. No writes may happen within a domain while an iterator
	// exists over it.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is a minimal interface for writing, unifying KVStore and
// Batch.
type SetDeleter interface {
	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// KVStore is a simple interface to get and set data.
//
// All backing stores implement this interface. They may implement other
// methods as well, but at least these are required.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch returns a batch that can write multiple ops atomically.
	NewBatch() Batch
}

// Batch is used to write multiple ops at once. Write must be called for
// any changes to take effect.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator allows us to access a set of items within a range of keys.
//
//   iter, err := db.Iterator(start, end)
//   ...
//   defer iter.Release()
//   for {
//       key, value, err := iter.Next()
//       if errors.ErrIteratorDone.Is(err) {
//           break
//       }
//       ...
//   }
type Iterator interface {
	// Next moves the iterator to the next sequential key in the store,
	// as defined by order of iteration. It returns ErrIteratorDone once
	// all values were read.
	Next() (key, value []byte, err error)

	// Release releases the Iterator, allowing it to be garbage
	// collected.
	Release()
}

// CacheableKVStore is a KVStore that supports cache wrapping.
//
// CacheWrap() should not return a committer, since Commit() on a cache
// wrap makes no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap maintains a scratch-pad of uncommitted data that can be
// viewed with all queries.
//
// At the end, call Write to use the cached data, or Discard to drop it.
// This works like a SAVEPOINT / ROLLBACK TO SAVEPOINT pair.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that can persist state to disk, load on start
// up, and maintain some history.
type CommitKVStore interface {
	// Get returns the value at last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a cache to perform actions on.
	CacheWrap() KVCacheWrap

	// Commit the next version to disk, and returns info.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit, it is guaranteed to return a
	// stable state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
