// Package rwmap provides a concurrent map guarded by a single reader/writer lock.
package rwmap

import (
	"fmt"
	"hash/maphash"
	"iter"
	"sync"
)

// Operation names reported to an Observer.
const (
	opLen              = "len"
	opContainsKey      = "contains_key"
	opContainsValue    = "contains_value"
	opGet              = "get"
	opPut              = "put"
	opDelete           = "delete"
	opCompareAndDelete = "compare_and_delete"
	opPutAll           = "put_all"
	opClear            = "clear"
	opReplace          = "replace"
	opCompareAndSwap   = "compare_and_swap"
	opPutIfAbsent      = "put_if_absent"
	opRange            = "range"
	opReplaceAll       = "replace_all"
	opComputeIfAbsent  = "compute_if_absent"
	opComputeIfPresent = "compute_if_present"
	opCompute          = "compute"
	opMerge            = "merge"
	opHash             = "hash"
	opEqual            = "equal"
	opString           = "string"
	opSnapshot         = "snapshot"
	opRestore          = "restore"
	opHandle           = "handle"
)

// Map is a map that allows concurrent readers and serializes writers.
//
// All operations lock the whole map: pure reads take the read lock,
// everything that mutates takes the write lock. Views returned by Keys,
// Values and Entries are not synchronized; see ReadHandle.
//
// Callbacks passed to Range, ForEach, ReplaceAll and the Compute family
// run with the lock held and must not call back into the same Map.
type Map[K comparable, V any] struct {
	mu  sync.RWMutex
	b   Backing[K, V]
	obs Observer
}

// Option configures a Map.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver reports every lock acquisition to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// New creates a Map backed by an empty HashMap.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	return NewWith[K, V](NewHashMap[K, V](nil), opts...)
}

// NewWith wraps an existing backing. The caller must not touch b
// afterwards except through the returned Map.
func NewWith[K comparable, V any](b Backing[K, V], opts ...Option) *Map[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Map[K, V]{
		b:   b,
		obs: o.observer,
	}
}

// NewFromMap creates a HashMap-backed Map holding a copy of src.
func NewFromMap[K comparable, V any](src map[K]V, opts ...Option) *Map[K, V] {
	b := NewHashMapSize[K, V](len(src), nil)
	for k, v := range src {
		b.Put(k, v)
	}
	return NewWith[K, V](b, opts...)
}

func (m *Map[K, V]) rlock(op string) {
	acquire(&m.mu, ModeRead, m.obs, op)
}

func (m *Map[K, V]) lock(op string) {
	acquire(&m.mu, ModeWrite, m.obs, op)
}

// ReadHandle returns the handle for the shared lock mode. Hold it while
// iterating any view.
func (m *Map[K, V]) ReadHandle() Handle {
	return Handle{mu: &m.mu, mode: ModeRead, obs: m.obs}
}

// WriteHandle returns the handle for the exclusive lock mode. Hold it
// while removing entries through a view.
func (m *Map[K, V]) WriteHandle() Handle {
	return Handle{mu: &m.mu, mode: ModeWrite, obs: m.obs}
}

// WithRead runs fn with the read lock held. fn must only read through v.
func (m *Map[K, V]) WithRead(fn func(v EntryView[K, V])) {
	g := m.ReadHandle().Acquire()
	defer g.Release()
	fn(m.Entries())
}

// WithWrite runs fn with the write lock held.
func (m *Map[K, V]) WithWrite(fn func(v EntryView[K, V])) {
	g := m.WriteHandle().Acquire()
	defer g.Release()
	fn(m.Entries())
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.rlock(opLen)
	defer m.mu.RUnlock()
	return m.b.Len()
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	m.rlock(opContainsKey)
	defer m.mu.RUnlock()
	_, ok := m.b.Get(key)
	return ok
}

// ContainsValue reports whether any entry holds a value equal to value.
func (m *Map[K, V]) ContainsValue(value V) bool {
	m.rlock(opContainsValue)
	defer m.mu.RUnlock()
	found := false
	m.b.Range(func(_ K, v V) bool {
		found = m.b.Equal(v, value)
		return !found
	})
	return found
}

// Get returns the value for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.rlock(opGet)
	defer m.mu.RUnlock()
	return m.b.Get(key)
}

// GetOrDefault returns the value for key, or def if key is absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	m.rlock(opGet)
	defer m.mu.RUnlock()
	if v, ok := m.b.Get(key); ok {
		return v
	}
	return def
}

// Put stores value and returns the previous value, if any.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	m.lock(opPut)
	defer m.mu.Unlock()
	return m.b.Put(key, value)
}

// Delete removes key and returns the removed value, if any.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	m.lock(opDelete)
	defer m.mu.Unlock()
	return m.b.Delete(key)
}

// CompareAndDelete removes key only if it currently maps to oldValue.
func (m *Map[K, V]) CompareAndDelete(key K, oldValue V) bool {
	m.lock(opCompareAndDelete)
	defer m.mu.Unlock()
	cur, ok := m.b.Get(key)
	if !ok || !m.b.Equal(cur, oldValue) {
		return false
	}
	m.b.Delete(key)
	return true
}

// PutAll stores every entry of src.
func (m *Map[K, V]) PutAll(src map[K]V) {
	m.lock(opPutAll)
	defer m.mu.Unlock()
	for k, v := range src {
		m.b.Put(k, v)
	}
}

// PutAllSeq stores every pair yielded by seq. seq runs with the write
// lock held and must not touch m.
func (m *Map[K, V]) PutAllSeq(seq iter.Seq2[K, V]) {
	m.lock(opPutAll)
	defer m.mu.Unlock()
	for k, v := range seq {
		m.b.Put(k, v)
	}
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.lock(opClear)
	defer m.mu.Unlock()
	m.b.Clear()
}

// Replace stores value only if key is present, returning the previous value.
func (m *Map[K, V]) Replace(key K, value V) (V, bool) {
	m.lock(opReplace)
	defer m.mu.Unlock()
	if _, ok := m.b.Get(key); !ok {
		var zero V
		return zero, false
	}
	return m.b.Put(key, value)
}

// CompareAndSwap stores newValue only if key currently maps to oldValue.
func (m *Map[K, V]) CompareAndSwap(key K, oldValue, newValue V) bool {
	m.lock(opCompareAndSwap)
	defer m.mu.Unlock()
	cur, ok := m.b.Get(key)
	if !ok || !m.b.Equal(cur, oldValue) {
		return false
	}
	m.b.Put(key, newValue)
	return true
}

// PutIfAbsent stores value if key is absent. It returns the existing value
// and true if key was present, or value and false after storing it.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	m.lock(opPutIfAbsent)
	defer m.mu.Unlock()
	if cur, ok := m.b.Get(key); ok {
		return cur, true
	}
	m.b.Put(key, value)
	return value, false
}

// HashFunc combines fn over all entries. The result does not depend on
// iteration order.
func (m *Map[K, V]) HashFunc(fn func(key K, value V) uint64) uint64 {
	m.rlock(opHash)
	defer m.mu.RUnlock()
	var sum uint64
	m.b.Range(func(k K, v V) bool {
		sum += fn(k, v)
		return true
	})
	return sum
}

// Hash hashes the entries of m with maphash. Maps with equal contents
// hash equally for the same seed.
func Hash[K, V comparable](m *Map[K, V], seed maphash.Seed) uint64 {
	return m.HashFunc(func(k K, v V) uint64 {
		return maphash.Comparable(seed, k) ^ (maphash.Comparable(seed, v) * 31)
	})
}

// Equal reports whether both maps hold the same keys with equal values.
// other is copied under its own read lock first, so two maps comparing
// each other concurrently do not deadlock.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if other == nil {
		return false
	}
	if other == m {
		return true
	}

	entries := other.snapshot()

	m.rlock(opEqual)
	defer m.mu.RUnlock()
	if m.b.Len() != len(entries) {
		return false
	}
	for _, e := range entries {
		v, ok := m.b.Get(e.Key)
		if !ok || !m.b.Equal(v, e.Value) {
			return false
		}
	}
	return true
}

// String formats the map. Backings implementing fmt.Stringer format themselves.
func (m *Map[K, V]) String() string {
	m.rlock(opString)
	defer m.mu.RUnlock()
	if s, ok := m.b.(fmt.Stringer); ok {
		return s.String()
	}
	return formatEntries(m.b)
}

// Clone returns a copy of all entries taken under the read lock.
func (m *Map[K, V]) Clone() map[K]V {
	m.rlock(opRange)
	defer m.mu.RUnlock()
	out := make(map[K]V, m.b.Len())
	m.b.Range(func(k K, v V) bool {
		out[k] = v
		return true
	})
	return out
}

// snapshot copies the entries under the read lock.
func (m *Map[K, V]) snapshot() []Entry[K, V] {
	m.rlock(opSnapshot)
	defer m.mu.RUnlock()
	return collect(m.b)
}

func collect[K comparable, V any](b Backing[K, V]) []Entry[K, V] {
	entries := make([]Entry[K, V], 0, b.Len())
	b.Range(func(k K, v V) bool {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
		return true
	})
	return entries
}
