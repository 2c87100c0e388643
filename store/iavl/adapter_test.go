package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/cescrow/cescrowtest/assert"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/store"
)

func assertGet(t testing.TB, kv interface {
	Get([]byte) ([]byte, error)
}, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestCommitStoreVersions(t *testing.T) {
	s := NewCommitStore("", "memory")
	defer s.Close()
	assert.Nil(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte("created")))
	assert.Nil(t, cache.Write())

	// Written to the working tree but not committed yet.
	assertGet(t, s, []byte("escrow"), nil)
	assertGet(t, s.Adapter(), []byte("escrow"), []byte("created"))

	first, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)
	if len(first.Hash) == 0 {
		t.Fatal("empty hash")
	}
	assertGet(t, s, []byte("escrow"), []byte("created"))

	cache = s.CacheWrap()
	assert.Nil(t, cache.Delete([]byte("escrow")))
	assert.Nil(t, cache.Set([]byte("other"), []byte("value")))
	assert.Nil(t, cache.Write())
	second, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)
	assertGet(t, s, []byte("escrow"), nil)

	latest, err := s.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, second, latest)
}

func TestCommitStoreIterator(t *testing.T) {
	s := NewCommitStore("", "memory")
	defer s.Close()

	kv := s.Adapter()
	for _, k := range []string{"a", "b", "c", "d"} {
		assert.Nil(t, kv.Set([]byte(k), []byte("v"+k)))
	}

	it, err := kv.ReverseIterator([]byte("b"), []byte("d"))
	assert.Nil(t, err)
	defer it.Release()

	var keys []string
	for {
		key, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		keys = append(keys, string(key))
	}
	assert.Equal(t, []string{"c", "b"}, keys)
}

func TestCommitStorePersistence(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	s := NewCommitStore(dir, "state")
	assert.Nil(t, s.LoadLatestVersion())
	cache := s.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte("created")))
	assert.Nil(t, cache.Write())
	id, err := s.Commit()
	assert.Nil(t, err)
	s.Close()

	reopened := NewCommitStore(dir, "state")
	defer reopened.Close()
	assert.Nil(t, reopened.LoadLatestVersion())
	latest, err := reopened.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)
	assertGet(t, reopened, []byte("escrow"), []byte("created"))
}

var _ store.CommitKVStore = (*CommitStore)(nil)
