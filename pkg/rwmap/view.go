package rwmap

import "iter"

// Entry is a key-value pair.
type Entry[K comparable, V any] struct {
	Key   K `json:"key" codec:"key"`
	Value V `json:"value" codec:"value"`
}

// KeyView is a live view of a Map's keys.
//
// Views read the backing directly, without locking. Iterate only while
// holding the map's ReadHandle, and call DeleteFunc only while holding
// its WriteHandle; otherwise behavior under concurrent use is undefined.
type KeyView[K comparable, V any] struct {
	b Backing[K, V]
}

// ValueView is a live view of a Map's values. It has the same locking
// rules as KeyView.
type ValueView[K comparable, V any] struct {
	b Backing[K, V]
}

// EntryView is a live view of a Map's entries. It has the same locking
// rules as KeyView.
type EntryView[K comparable, V any] struct {
	b Backing[K, V]
}

// Keys returns a live view of the keys. The caller is responsible for
// locking; see KeyView.
func (m *Map[K, V]) Keys() KeyView[K, V] {
	return KeyView[K, V]{b: m.b}
}

// Values returns a live view of the values. The caller is responsible
// for locking; see KeyView.
func (m *Map[K, V]) Values() ValueView[K, V] {
	return ValueView[K, V]{b: m.b}
}

// Entries returns a live view of the entries. The caller is responsible
// for locking; see KeyView.
func (m *Map[K, V]) Entries() EntryView[K, V] {
	return EntryView[K, V]{b: m.b}
}

func (v KeyView[K, V]) Len() int { return v.b.Len() }

// All yields every key.
func (v KeyView[K, V]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		v.b.Range(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// Contains reports whether key is present.
func (v KeyView[K, V]) Contains(key K) bool {
	_, ok := v.b.Get(key)
	return ok
}

// DeleteFunc removes every key for which fn returns true and returns the
// number removed.
func (v KeyView[K, V]) DeleteFunc(fn func(key K) bool) int {
	return deleteMatching(v.b, func(k K, _ V) bool { return fn(k) })
}

func (v ValueView[K, V]) Len() int { return v.b.Len() }

// All yields every value.
func (v ValueView[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		v.b.Range(func(_ K, val V) bool {
			return yield(val)
		})
	}
}

// Contains reports whether any entry holds a value equal to value.
func (v ValueView[K, V]) Contains(value V) bool {
	found := false
	v.b.Range(func(_ K, val V) bool {
		found = v.b.Equal(val, value)
		return !found
	})
	return found
}

// DeleteFunc removes every entry whose value matches fn and returns the
// number removed.
func (v ValueView[K, V]) DeleteFunc(fn func(value V) bool) int {
	return deleteMatching(v.b, func(_ K, val V) bool { return fn(val) })
}

func (v EntryView[K, V]) Len() int { return v.b.Len() }

// All yields every entry.
func (v EntryView[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		v.b.Range(yield)
	}
}

// Get returns the value for key.
func (v EntryView[K, V]) Get(key K) (V, bool) {
	return v.b.Get(key)
}

// Contains reports whether key maps to a value equal to value.
func (v EntryView[K, V]) Contains(key K, value V) bool {
	cur, ok := v.b.Get(key)
	return ok && v.b.Equal(cur, value)
}

// Put stores value for key. Requires the write handle.
func (v EntryView[K, V]) Put(key K, value V) (V, bool) {
	return v.b.Put(key, value)
}

// Delete removes key. Requires the write handle.
func (v EntryView[K, V]) Delete(key K) (V, bool) {
	return v.b.Delete(key)
}

// DeleteFunc removes every entry for which fn returns true and returns
// the number removed. Requires the write handle.
func (v EntryView[K, V]) DeleteFunc(fn func(key K, value V) bool) int {
	return deleteMatching(v.b, fn)
}

// deleteMatching collects matches first and deletes them afterwards so
// that backings which forbid mutation during Range can be used.
func deleteMatching[K comparable, V any](b Backing[K, V], fn func(K, V) bool) int {
	var doomed []K
	b.Range(func(k K, v V) bool {
		if fn(k, v) {
			doomed = append(doomed, k)
		}
		return true
	})
	for _, k := range doomed {
		b.Delete(k)
	}
	return len(doomed)
}
