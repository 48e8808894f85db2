package rwmap

import (
	"strings"
	"sync"
	"testing"
)

func TestSortedMapOrder(t *testing.T) {
	s := NewSortedMap[string, int](nil)
	for i, k := range []string{"delta", "alpha", "charlie", "bravo"} {
		s.Put(k, i)
	}

	var keys []string
	s.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	})
	if strings.Join(keys, ",") != "alpha,bravo,charlie,delta" {
		t.Errorf("Range order = %v", keys)
	}

	if e, ok := s.Min(); !ok || e.Key != "alpha" {
		t.Errorf("Min() = (%v, %v), want alpha", e, ok)
	}
	if e, ok := s.Max(); !ok || e.Key != "delta" {
		t.Errorf("Max() = (%v, %v), want delta", e, ok)
	}
}

func TestSortedMapBacking(t *testing.T) {
	s := NewSortedMapFunc[string, int](func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	}, func(a, b int) bool { return a == b })

	if _, loaded := s.Put("Key", 1); loaded {
		t.Error("first Put reported a previous value")
	}
	prev, loaded := s.Put("key", 2)
	if !loaded || prev != 1 {
		t.Errorf("Put(key) = (%d, %v), want (1, true): keys compare case-insensitively", prev, loaded)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if v, ok := s.Get("KEY"); !ok || v != 2 {
		t.Errorf("Get(KEY) = (%d, %v), want (2, true)", v, ok)
	}
	if v, ok := s.Delete("kEy"); !ok || v != 2 {
		t.Errorf("Delete(kEy) = (%d, %v), want (2, true)", v, ok)
	}

	s.Put("a", 1)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", s.Len())
	}
}

func TestSortedMapModificationDuringRange(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *SortedMap[int, int])
	}{
		{"Put", func(s *SortedMap[int, int]) { s.Put(100, 1) }},
		{"Delete", func(s *SortedMap[int, int]) { s.Delete(1) }},
		{"Clear", func(s *SortedMap[int, int]) { s.Clear() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSortedMap[int, int](nil)
			s.Put(1, 1)
			s.Put(2, 2)

			got := expectPanic(t, func() {
				s.Range(func(int, int) bool {
					tt.fn(s)
					return true
				})
			})
			if got != ErrConcurrentModification {
				t.Errorf("recovered %v, want ErrConcurrentModification", got)
			}

			// The walk counter is reset, so the tree is writable again.
			s.Put(3, 3)
			if s.Len() != 3 {
				t.Errorf("Len() = %d, want 3", s.Len())
			}
		})
	}
}

func TestSortedMapConcurrentReaders(t *testing.T) {
	m := NewWith[int, int](NewSortedMap[int](func(a, b int) bool { return a == b }))
	for i := 0; i < 64; i++ {
		m.Put(i, i)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				m.ContainsValue(-1)
				m.ForEach(func(int, int) {})
			}
		}()
	}
	wg.Wait()

	// Every walk has finished, so writes must not see a walk in progress.
	m.Put(100, 100)
	m.Delete(0)
	if m.Len() != 64 {
		t.Errorf("Len() = %d, want 64", m.Len())
	}
}

func TestHashMapBacking(t *testing.T) {
	h := NewHashMap[string, float64](func(a, b float64) bool {
		d := a - b
		return d < 0.01 && d > -0.01
	})
	h.Put("pi", 3.14159)

	if !h.Equal(3.14, 3.141) {
		t.Error("custom equality not used")
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", h.Len())
	}

	m := NewWith[string, float64](NewHashMap[string, float64](h.eq))
	m.Put("pi", 3.14159)
	if !m.CompareAndSwap("pi", 3.14, 3.0) {
		t.Error("CompareAndSwap should use the backing's equality")
	}
}
