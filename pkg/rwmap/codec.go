package rwmap

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Codec serializes a list of entries.
type Codec interface {
	// Name returns the codec name used by CodecByName.
	Name() string
	Encode(w io.Writer, v any) error
	Decode(r io.Reader, v any) error
}

// Codec names.
const (
	CodecJSON    = "json"
	CodecGob     = "gob"
	CodecMsgpack = "msgpack"
)

// JSONCodec encodes entries as a JSON array of {"key","value"} objects.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (JSONCodec) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// GobCodec encodes entries with encoding/gob.
type GobCodec struct{}

func (GobCodec) Name() string { return CodecGob }

func (GobCodec) Encode(w io.Writer, v any) error {
	return gob.NewEncoder(w).Encode(v)
}

func (GobCodec) Decode(r io.Reader, v any) error {
	return gob.NewDecoder(r).Decode(v)
}

// MsgpackCodec encodes entries as MessagePack.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Encode(w io.Writer, v any) error {
	return codec.NewEncoder(w, msgpackHandle()).Encode(v)
}

func (MsgpackCodec) Decode(r io.Reader, v any) error {
	return codec.NewDecoder(r, msgpackHandle()).Decode(v)
}

func msgpackHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	return h
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case CodecJSON:
		return JSONCodec{}, nil
	case CodecGob:
		return GobCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Snapshot writes all entries to w with c. The read lock is held until
// the encoder returns, so the output never reflects a half-applied write.
// w should not block for long: writers wait for the whole encode.
func (m *Map[K, V]) Snapshot(w io.Writer, c Codec) error {
	m.rlock(opSnapshot)
	defer m.mu.RUnlock()

	if err := c.Encode(w, collect(m.b)); err != nil {
		return fmt.Errorf("rwmap: encode %s snapshot: %w", c.Name(), err)
	}
	return nil
}

// Restore replaces the contents of m with a snapshot read from r.
// Decoding happens before the write lock is taken; on error m is left
// unchanged. A zero Map gets a HashMap backing.
func (m *Map[K, V]) Restore(r io.Reader, c Codec) error {
	var entries []Entry[K, V]
	if err := c.Decode(r, &entries); err != nil {
		return fmt.Errorf("rwmap: decode %s snapshot: %w", c.Name(), err)
	}
	m.load(entries)
	return nil
}

// load replaces the contents of m with entries.
func (m *Map[K, V]) load(entries []Entry[K, V]) {
	m.lock(opRestore)
	defer m.mu.Unlock()

	if m.b == nil {
		m.b = NewHashMapSize[K, V](len(entries), nil)
	}
	m.b.Clear()
	for _, e := range entries {
		m.b.Put(e.Key, e.Value)
	}
}

func (m *Map[K, V]) encode(c Codec) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Snapshot(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Map[K, V]) decode(data []byte, c Codec) error {
	return m.Restore(bytes.NewReader(data), c)
}

// MarshalJSON implements json.Marshaler.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	return m.encode(JSONCodec{})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	return m.decode(data, JSONCodec{})
}

// GobEncode implements gob.GobEncoder.
func (m *Map[K, V]) GobEncode() ([]byte, error) {
	return m.encode(GobCodec{})
}

// GobDecode implements gob.GobDecoder.
func (m *Map[K, V]) GobDecode(data []byte) error {
	return m.decode(data, GobCodec{})
}

// MarshalBinary implements encoding.BinaryMarshaler using MessagePack.
func (m *Map[K, V]) MarshalBinary() ([]byte, error) {
	return m.encode(MsgpackCodec{})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using MessagePack.
func (m *Map[K, V]) UnmarshalBinary(data []byte) error {
	return m.decode(data, MsgpackCodec{})
}
