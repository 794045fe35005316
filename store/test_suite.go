package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuite provides many methods that can be called in package-specific
// test code. We just customize the store being tested (pass in
// constructor), the rest of the logic is generic to the KVStore interface.
//
// This removes duplication between btree_test.go and iavl/adapter_test.go,
// but can be used for any implementation of CacheableKVStore.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running all checks against stores created
// by the constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// another layer sees base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// a discarded cache leaves no trace
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle overwriting values and deleting
// underlying values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	parent := base.CacheWrap()
	require.NoError(t, parent.Set([]byte("a"), []byte("1")))
	require.NoError(t, parent.Set([]byte("b"), []byte("2")))

	child := parent.CacheWrap()
	require.NoError(t, child.Set([]byte("a"), []byte("11")))
	require.NoError(t, child.Delete([]byte("b")))
	require.NoError(t, child.Set([]byte("c"), []byte("3")))

	s.AssertGetHas(t, parent, []byte("a"), []byte("1"), true)
	s.AssertGetHas(t, parent, []byte("b"), []byte("2"), true)
	s.AssertGetHas(t, parent, []byte("c"), nil, false)

	s.AssertGetHas(t, child, []byte("a"), []byte("11"), true)
	s.AssertGetHas(t, child, []byte("b"), nil, false)
	s.AssertGetHas(t, child, []byte("c"), []byte("3"), true)

	require.NoError(t, child.Write())
	s.AssertGetHas(t, parent, []byte("a"), []byte("11"), true)
	s.AssertGetHas(t, parent, []byte("b"), nil, false)
	s.AssertGetHas(t, parent, []byte("c"), []byte("3"), true)
}

// Iteration checks that iterators merge every layer in both directions.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("h"), []byte("cache-h")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"everything ascending": {
			want: models("a", "base-a", "b", "cache-b", "c", "cache-c", "g", "base-g", "h", "cache-h"),
		},
		"everything descending": {
			reverse: true,
			want:    models("h", "cache-h", "g", "base-g", "c", "cache-c", "b", "cache-b", "a", "base-a"),
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("g"),
			want:  models("b", "cache-b", "c", "cache-c"),
		},
		"bounded descending": {
			start:   []byte("b"),
			end:     []byte("h"),
			reverse: true,
			want:    models("g", "base-g", "c", "cache-c", "b", "cache-b"),
		},
		"open end": {
			start: []byte("d"),
			want:  models("g", "base-g", "h", "cache-h"),
		},
		"open start": {
			end:  []byte("c"),
			want: models("a", "base-a", "b", "cache-b"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			got, err := ReadAll(it)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// AssertGetHas checks that Get and Has agree on the given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

func models(kv ...string) []Model {
	var res []Model
	for i := 0; i < len(kv); i += 2 {
		res = append(res, Model{Key: []byte(kv[i]), Value: []byte(kv[i+1])})
	}
	return res
}
