package rwmap

// Range calls fn for each entry, in the backing's order, until fn returns
// false. The read lock is held for the whole walk.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.rlock(opRange)
	defer m.mu.RUnlock()
	m.b.Range(fn)
}

// ForEach calls fn for every entry with the read lock held.
func (m *Map[K, V]) ForEach(fn func(key K, value V)) {
	m.rlock(opRange)
	defer m.mu.RUnlock()
	m.b.Range(func(k K, v V) bool {
		fn(k, v)
		return true
	})
}

// ReplaceAll replaces every value with fn(key, value). All replacements
// are computed first and then stored, under one write lock, so backings
// that forbid mutation during Range are supported.
func (m *Map[K, V]) ReplaceAll(fn func(key K, value V) V) {
	m.lock(opReplaceAll)
	defer m.mu.Unlock()

	updated := make([]Entry[K, V], 0, m.b.Len())
	m.b.Range(func(k K, v V) bool {
		updated = append(updated, Entry[K, V]{Key: k, Value: fn(k, v)})
		return true
	})
	for _, e := range updated {
		m.b.Put(e.Key, e.Value)
	}
}

// ComputeIfAbsent calls fn when key is absent and stores its result
// unless fn returns false. It returns the value now mapped to key and
// whether key is present.
func (m *Map[K, V]) ComputeIfAbsent(key K, fn func(key K) (V, bool)) (V, bool) {
	m.lock(opComputeIfAbsent)
	defer m.mu.Unlock()

	if cur, ok := m.b.Get(key); ok {
		return cur, true
	}
	v, keep := fn(key)
	if !keep {
		var zero V
		return zero, false
	}
	m.b.Put(key, v)
	return v, true
}

// ComputeIfPresent calls fn when key is present. The result replaces the
// value, or the entry is deleted when fn returns false.
func (m *Map[K, V]) ComputeIfPresent(key K, fn func(key K, value V) (V, bool)) (V, bool) {
	m.lock(opComputeIfPresent)
	defer m.mu.Unlock()

	cur, ok := m.b.Get(key)
	if !ok {
		return cur, false
	}
	v, keep := fn(key, cur)
	return m.apply(key, v, keep)
}

// Compute calls fn with the current mapping of key, if any. The result is
// stored, or the entry is removed when fn returns false.
func (m *Map[K, V]) Compute(key K, fn func(key K, value V, loaded bool) (V, bool)) (V, bool) {
	m.lock(opCompute)
	defer m.mu.Unlock()

	cur, ok := m.b.Get(key)
	v, keep := fn(key, cur, ok)
	if !keep && !ok {
		var zero V
		return zero, false
	}
	return m.apply(key, v, keep)
}

// Merge stores value if key is absent. Otherwise it stores fn(old, value),
// or removes the entry when fn returns false.
func (m *Map[K, V]) Merge(key K, value V, fn func(old, value V) (V, bool)) (V, bool) {
	m.lock(opMerge)
	defer m.mu.Unlock()

	cur, ok := m.b.Get(key)
	if !ok {
		m.b.Put(key, value)
		return value, true
	}
	v, keep := fn(cur, value)
	return m.apply(key, v, keep)
}

// apply stores v for key, or deletes key when keep is false.
// The caller holds the write lock.
func (m *Map[K, V]) apply(key K, v V, keep bool) (V, bool) {
	if !keep {
		m.b.Delete(key)
		var zero V
		return zero, false
	}
	m.b.Put(key, v)
	return v, true
}
