package rwmap

import (
	"cmp"
	"sync/atomic"

	"github.com/google/btree"
)

// DefaultBTreeDegree is the B-tree degree used by NewSortedMap.
const DefaultBTreeDegree = 32

// SortedMap is a Backing that keeps entries ordered by key in a B-tree.
//
// Range visits entries in ascending key order. The tree cannot be
// modified while it is being walked: Put, Delete or Clear during Range
// panic with ErrConcurrentModification.
type SortedMap[K comparable, V any] struct {
	tree *btree.BTreeG[Entry[K, V]]
	eq   func(a, b V) bool
	// walking counts Range calls in progress. Readers walk in parallel.
	walking atomic.Int32
}

// NewSortedMap creates an empty SortedMap ordered by the natural order of K.
func NewSortedMap[K cmp.Ordered, V any](eq func(a, b V) bool) *SortedMap[K, V] {
	return NewSortedMapFunc[K, V](cmp.Less[K], eq)
}

// NewSortedMapFunc creates an empty SortedMap ordered by less.
// A nil eq falls back to reflect.DeepEqual.
func NewSortedMapFunc[K comparable, V any](less func(a, b K) bool, eq func(a, b V) bool) *SortedMap[K, V] {
	if eq == nil {
		eq = deepEqual[V]
	}
	return &SortedMap[K, V]{
		tree: btree.NewG(DefaultBTreeDegree, func(a, b Entry[K, V]) bool {
			return less(a.Key, b.Key)
		}),
		eq: eq,
	}
}

func (s *SortedMap[K, V]) Len() int {
	return s.tree.Len()
}

func (s *SortedMap[K, V]) Get(key K) (V, bool) {
	e, ok := s.tree.Get(Entry[K, V]{Key: key})
	return e.Value, ok
}

func (s *SortedMap[K, V]) Put(key K, value V) (V, bool) {
	s.checkWalking()
	prev, ok := s.tree.ReplaceOrInsert(Entry[K, V]{Key: key, Value: value})
	return prev.Value, ok
}

func (s *SortedMap[K, V]) Delete(key K) (V, bool) {
	s.checkWalking()
	prev, ok := s.tree.Delete(Entry[K, V]{Key: key})
	return prev.Value, ok
}

func (s *SortedMap[K, V]) Range(fn func(key K, value V) bool) {
	s.walking.Add(1)
	defer s.walking.Add(-1)

	s.tree.Ascend(func(e Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

func (s *SortedMap[K, V]) Clear() {
	s.checkWalking()
	s.tree.Clear(false)
}

func (s *SortedMap[K, V]) Equal(a, b V) bool {
	return s.eq(a, b)
}

// Min returns the entry with the smallest key.
func (s *SortedMap[K, V]) Min() (Entry[K, V], bool) {
	return s.tree.Min()
}

// Max returns the entry with the largest key.
func (s *SortedMap[K, V]) Max() (Entry[K, V], bool) {
	return s.tree.Max()
}

// String formats the entries in key order.
func (s *SortedMap[K, V]) String() string {
	return formatEntries[K, V](s)
}

func (s *SortedMap[K, V]) checkWalking() {
	if s.walking.Load() > 0 {
		panic(ErrConcurrentModification)
	}
}
