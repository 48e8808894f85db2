// Package rwmap provides a concurrent map guarded by one reader/writer lock.
//
// Map wraps an unsynchronized Backing and a single sync.RWMutex. It trades
// write concurrency for a small footprint compared with a sharded map:
// there is no shard array and no per-shard lock, and every operation is
// atomic with respect to the whole map.
//
//   - Pure reads (Get, Len, ContainsKey, Range, Equal, String, ...) take the
//     read lock and may run in parallel.
//   - Mutations (Put, Delete, PutIfAbsent, Replace, Clear, ...) and the
//     Compute family take the write lock. The lookup, the callback and the
//     update form one atomic step.
//   - Snapshot and the Marshal methods hold the read lock while encoding,
//     so a snapshot never contains a partially applied write.
//
// Usage:
//
//	m := rwmap.New[string, int]()
//	m.Put("a", 1)
//	m.Merge("a", 5, func(old, v int) (int, bool) { return old + v, true })
//	v, ok := m.Get("a") // 6, true
//
// Views:
//
// Keys, Values and Entries return live views backed directly by the
// container. They are not synchronized. The caller brackets iteration
// with ReadHandle and removal with WriteHandle:
//
//	g := m.ReadHandle().Acquire()
//	defer g.Release()
//	for k := range m.Keys().All() {
//		use(k)
//	}
//
// Reentrancy:
//
// The lock is not reentrant. A callback must not call back into the map
// it was passed by; that deadlocks. A goroutine holding the read handle
// must not take the write handle.
//
// Failures:
//
// A panic raised by the backing or by a callback propagates unchanged.
// Every acquisition is released by a deferred unlock, so the map stays
// usable after the panic is recovered.
package rwmap
