package app

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
)

// CommitStore keeps two cache layers over the persistent store: one for
// the transactions of the current block and one for mempool checks. Only
// the block layer reaches disk, on Commit.
type CommitStore struct {
	committed settle.CommitKVStore
	deliver   settle.KVCacheWrap
	check     settle.KVCacheWrap
}

// NewCommitStore opens the latest version of store. It panics if that
// version cannot be loaded.
func NewCommitStore(store settle.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

func (cs *CommitStore) CommitInfo() (settle.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the block layer. Pending check state is dropped and both
// layers start again from the new version.
func (cs *CommitStore) Commit() (settle.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return settle.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() settle.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() settle.CacheableKVStore {
	return cs.deliver
}

// Keys under the "_s:" prefix are reserved for the application itself.
var chainIDKey = []byte("_s:chainID")

// mustLoadChainID returns the stored chain id, or "" before genesis.
func mustLoadChainID(kv settle.ReadOnlyKVStore) string {
	raw, err := kv.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID writes the chain id once. Any later attempt fails.
func saveChainID(kv settle.KVStore, chainID string) error {
	if !settle.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch ok, err := kv.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case ok:
		return errors.Wrap(errors.ErrImmutable, "chain id is set at genesis")
	}
	if err := kv.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
