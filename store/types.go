package store

import "github.com/iov-one/cescrow"

// Aliases of the storage interfaces for shorter names within this
// package and its users.
type (
	ReadOnlyKVStore  = cescrow.ReadOnlyKVStore
	SetDeleter       = cescrow.SetDeleter
	KVStore          = cescrow.KVStore
	Batch            = cescrow.Batch
	Iterator         = cescrow.Iterator
	CacheableKVStore = cescrow.CacheableKVStore
	KVCacheWrap      = cescrow.KVCacheWrap
	CommitKVStore    = cescrow.CommitKVStore
	CommitID         = cescrow.CommitID
	Model            = cescrow.Model
)
