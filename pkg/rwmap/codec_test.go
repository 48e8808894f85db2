package rwmap

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestCodecByName(t *testing.T) {
	for _, name := range []string{CodecJSON, CodecGob, CodecMsgpack, "JSON"} {
		c, err := CodecByName(name)
		if err != nil {
			t.Fatalf("CodecByName(%q) error = %v", name, err)
		}
		if c.Name() != strings.ToLower(name) {
			t.Errorf("CodecByName(%q).Name() = %q", name, c.Name())
		}
	}

	_, err := CodecByName("xml")
	if !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("CodecByName(xml) error = %v, want ErrUnknownCodec", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, GobCodec{}, MsgpackCodec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			src := New[string, int]()
			for i, k := range []string{"a", "b", "c", "d"} {
				src.Put(k, i*7)
			}

			var buf bytes.Buffer
			if err := src.Snapshot(&buf, c); err != nil {
				t.Fatalf("Snapshot() error = %v", err)
			}

			dst := NewWith[string, int](NewSortedMap[string, int](nil))
			dst.Put("stale", 1)
			if err := dst.Restore(&buf, c); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			if !src.Equal(dst) {
				t.Errorf("restored %v, want %v", dst, src)
			}
		})
	}
}

func TestRestoreErrorLeavesMapUnchanged(t *testing.T) {
	m := NewFromMap(map[string]int{"keep": 1})

	err := m.Restore(strings.NewReader("{not json"), JSONCodec{})
	if err == nil {
		t.Fatal("Restore() should fail on malformed input")
	}
	if v, ok := m.Get("keep"); !ok || v != 1 {
		t.Error("failed Restore must not change the map")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSnapshotWriteError(t *testing.T) {
	m := NewFromMap(map[string]int{"a": 1})

	if err := m.Snapshot(failingWriter{}, JSONCodec{}); err == nil {
		t.Fatal("Snapshot() should report the writer error")
	}
	mustUnlocked(t, m)
}

func TestJSONMarshal(t *testing.T) {
	m := NewFromMap(map[string]int{"a": 1})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !bytes.Contains(data, []byte(`{"key":"a","value":1}`)) {
		t.Errorf("json.Marshal() = %s", data)
	}

	var out Map[string, int]
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !m.Equal(&out) {
		t.Errorf("round trip = %v, want %v", &out, m)
	}
}

func TestJSONEmbedded(t *testing.T) {
	type doc struct {
		Name  string               `json:"name"`
		Items *Map[string, []byte] `json:"items"`
	}

	in := doc{Name: "d", Items: New[string, []byte]()}
	in.Items.Put("blob", []byte{1, 2, 3})

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var out doc
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !in.Items.Equal(out.Items) {
		t.Errorf("round trip = %v, want %v", out.Items, in.Items)
	}
}

func TestGobRoundTrip(t *testing.T) {
	m := NewFromMap(map[int]string{1: "one", 2: "two"})

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		t.Fatalf("gob Encode() error = %v", err)
	}

	out := &Map[int, string]{}
	if err := gob.NewDecoder(&buf).Decode(out); err != nil {
		t.Fatalf("gob Decode() error = %v", err)
	}
	if !m.Equal(out) {
		t.Errorf("round trip = %v, want %v", out, m)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	m := NewFromMap(map[string]int{"x": 1, "y": 2})

	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	var out Map[string, int]
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if !m.Equal(&out) {
		t.Errorf("round trip = %v, want %v", &out, m)
	}
}

func TestSnapshotNeverTorn(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 100; i++ {
		m.Put(i, 0)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.ReplaceAll(func(_ int, v int) int { return v + 1 })
		}
	}()

	for i := 0; i < 50; i++ {
		var buf bytes.Buffer
		if err := m.Snapshot(&buf, JSONCodec{}); err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}

		var entries []Entry[int, int]
		if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if len(entries) != 100 {
			t.Fatalf("snapshot has %d entries, want 100", len(entries))
		}
		for _, e := range entries {
			if e.Value != entries[0].Value {
				t.Fatalf("torn snapshot: key %d = %d, key %d = %d",
					e.Key, e.Value, entries[0].Key, entries[0].Value)
			}
		}
	}
	wg.Wait()
}
