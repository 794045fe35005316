package store

import "github.com/settle-labs/settle"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = settle.ReadOnlyKVStore
	SetDeleter       = settle.SetDeleter
	KVStore          = settle.KVStore
	Batch            = settle.Batch
	Iterator         = settle.Iterator
	CacheableKVStore = settle.CacheableKVStore
	KVCacheWrap      = settle.KVCacheWrap
	CommitKVStore    = settle.CommitKVStore
	CommitID         = settle.CommitID
	Model            = settle.Model
)
