package rwmap

import (
	"sync"
	"sync/atomic"
	"time"
)

// Mode is a lock mode of a Map.
type Mode int

const (
	// ModeRead is the shared mode.
	ModeRead Mode = iota + 1
	// ModeWrite is the exclusive mode.
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Observer receives lock acquisition timings.
//
// ObserveLock runs while the lock is held and must not block. A panic
// in ObserveLock releases the lock and reaches the caller. op names the
// Map operation ("get", "put", ...), or "handle" for acquisitions through
// a Handle.
type Observer interface {
	ObserveLock(op string, mode Mode, wait time.Duration)
}

// Handle gives a caller scoped access to one of a Map's lock modes so
// that iteration over a view can be bracketed. It implements sync.Locker.
//
// A goroutine holding the read handle must not acquire the write handle:
// the lock cannot be upgraded and doing so deadlocks.
type Handle struct {
	mu   *sync.RWMutex
	mode Mode
	obs  Observer
}

// Mode returns the lock mode of the handle.
func (h Handle) Mode() Mode {
	return h.mode
}

// Lock blocks until the lock is held in the handle's mode.
func (h Handle) Lock() {
	acquire(h.mu, h.mode, h.obs, opHandle)
}

// Unlock releases the lock. Unlocking a handle that is not held is a
// run-time error, exactly as for sync.RWMutex.
func (h Handle) Unlock() {
	unlock(h.mu, h.mode)
}

// TryLock acquires the lock without blocking and reports whether it succeeded.
func (h Handle) TryLock() bool {
	var ok bool
	if h.mode == ModeWrite {
		ok = h.mu.TryLock()
	} else {
		ok = h.mu.TryRLock()
	}
	if ok && h.obs != nil {
		observe(h.mu, h.mode, h.obs, opHandle, 0)
	}
	return ok
}

// Acquire locks the handle and returns a Guard that releases it.
//
//	g := m.ReadHandle().Acquire()
//	defer g.Release()
//	for k := range m.Keys().All() {
//		...
//	}
func (h Handle) Acquire() *Guard {
	h.Lock()
	return &Guard{h: h}
}

// Guard is a held lock. Release may be called more than once.
type Guard struct {
	h        Handle
	released atomic.Bool
}

// Mode returns the mode the guard holds.
func (g *Guard) Mode() Mode {
	return g.h.mode
}

// Release unlocks the lock the first time it is called.
func (g *Guard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.h.Unlock()
	}
}

// acquire locks mu in mode and reports the wait to obs, if set.
func acquire(mu *sync.RWMutex, mode Mode, obs Observer, op string) {
	if obs == nil {
		lock(mu, mode)
		return
	}

	start := time.Now()
	lock(mu, mode)
	observe(mu, mode, obs, op, time.Since(start))
}

// observe calls obs with mu held. If obs panics, mu is released before
// the panic continues.
func observe(mu *sync.RWMutex, mode Mode, obs Observer, op string, wait time.Duration) {
	done := false
	defer func() {
		if !done {
			unlock(mu, mode)
		}
	}()
	obs.ObserveLock(op, mode, wait)
	done = true
}

func lock(mu *sync.RWMutex, mode Mode) {
	if mode == ModeWrite {
		mu.Lock()
		return
	}
	mu.RLock()
}

func unlock(mu *sync.RWMutex, mode Mode) {
	if mode == ModeWrite {
		mu.Unlock()
		return
	}
	mu.RUnlock()
}
