package rwmap

import (
	"fmt"
	"reflect"
	"strings"
)

// Backing is the unsynchronized container wrapped by Map.
//
// Implementations need not be safe for concurrent use; Map serializes
// access. Failures (for example a forbidden modification during Range)
// are reported by panicking, and Map lets the panic propagate unchanged.
type Backing[K comparable, V any] interface {
	// Len returns the number of entries.
	Len() int
	// Get returns the value for key and whether it was present.
	Get(key K) (V, bool)
	// Put stores value and returns the previous value, if any.
	Put(key K, value V) (V, bool)
	// Delete removes key and returns the removed value, if any.
	Delete(key K) (V, bool)
	// Range calls fn for each entry until fn returns false.
	Range(fn func(key K, value V) bool)
	// Clear removes all entries.
	Clear()
	// Equal reports whether two values are equal in this container's sense.
	Equal(a, b V) bool
}

// HashMap is a Backing on top of a built-in Go map.
//
// Iteration order is unspecified. Deleting entries during Range is
// allowed, as for any Go map.
type HashMap[K comparable, V any] struct {
	items map[K]V
	eq    func(a, b V) bool
}

// NewHashMap creates an empty HashMap. A nil eq falls back to reflect.DeepEqual.
func NewHashMap[K comparable, V any](eq func(a, b V) bool) *HashMap[K, V] {
	return NewHashMapSize[K, V](0, eq)
}

// NewHashMapSize creates an empty HashMap with room for size entries.
func NewHashMapSize[K comparable, V any](size int, eq func(a, b V) bool) *HashMap[K, V] {
	if eq == nil {
		eq = deepEqual[V]
	}
	return &HashMap[K, V]{
		items: make(map[K]V, size),
		eq:    eq,
	}
}

func deepEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}

func (h *HashMap[K, V]) Len() int {
	return len(h.items)
}

func (h *HashMap[K, V]) Get(key K) (V, bool) {
	v, ok := h.items[key]
	return v, ok
}

func (h *HashMap[K, V]) Put(key K, value V) (V, bool) {
	prev, ok := h.items[key]
	h.items[key] = value
	return prev, ok
}

func (h *HashMap[K, V]) Delete(key K) (V, bool) {
	prev, ok := h.items[key]
	if ok {
		delete(h.items, key)
	}
	return prev, ok
}

func (h *HashMap[K, V]) Range(fn func(key K, value V) bool) {
	for k, v := range h.items {
		if !fn(k, v) {
			return
		}
	}
}

func (h *HashMap[K, V]) Clear() {
	clear(h.items)
}

func (h *HashMap[K, V]) Equal(a, b V) bool {
	return h.eq(a, b)
}

// String formats the entries the way fmt prints a map.
func (h *HashMap[K, V]) String() string {
	return formatEntries[K, V](h)
}

// formatEntries renders a backing as map[k:v k:v].
func formatEntries[K comparable, V any](b Backing[K, V]) string {
	var sb strings.Builder
	sb.WriteString("map[")
	first := true
	b.Range(func(key K, value V) bool {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", key, value)
		return true
	})
	sb.WriteByte(']')
	return sb.String()
}
