package store

import (
	"bytes"

	"github.com/settle-labs/settle/errors"
)

// SliceIterator wraps an Iterator over a slice of models
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{
		data: data,
	}
}

// Next returns the next model or ErrIteratorDone.
func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release releases the Iterator.
func (s *SliceIterator) Release() {
	s.data = nil
}

// mergeIterator combines a snapshot of the cache with the iterator of the
// parent store. Cached entries shadow parent entries with the same key and
// deleted entries hide them.
type mergeIterator struct {
	cached    []keyer
	parent    Iterator
	ascending bool

	// head of the parent iterator
	pKey, pValue []byte
	pLoaded      bool
	pDone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []keyer, parent Iterator, ascending bool) *mergeIterator {
	return &mergeIterator{
		cached:    cached,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergeIterator) loadParent() error {
	if m.pLoaded || m.pDone {
		return nil
	}
	key, value, err := m.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		m.pDone = true
		return nil
	case err != nil:
		return err
	}
	m.pKey, m.pValue, m.pLoaded = key, value, true
	return nil
}

func (m *mergeIterator) takeParent() (key, value []byte) {
	key, value = m.pKey, m.pValue
	m.pKey, m.pValue, m.pLoaded = nil, nil, false
	return key, value
}

// Next returns the entry with the lowest (or highest when descending) key
// of both sources.
func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.loadParent(); err != nil {
			return nil, nil, err
		}

		if len(m.cached) == 0 {
			if !m.pLoaded {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value := m.takeParent()
			return key, value, nil
		}

		head := m.cached[0]
		if m.pLoaded {
			cmp := bytes.Compare(m.pKey, head.Key())
			if !m.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				key, value := m.takeParent()
				return key, value, nil
			}
			if cmp == 0 {
				// shadowed by the cache
				m.takeParent()
			}
		}

		m.cached = m.cached[1:]
		if item, ok := head.(setItem); ok {
			return item.key, item.value, nil
		}
	}
}

// Release releases the Iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cached = nil
}

// ReadAll consumes the iterator and returns all models in iteration order.
// The iterator is released.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Model{Key: key, Value: value})
	}
}
