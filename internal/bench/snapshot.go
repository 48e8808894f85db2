package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

// SnapshotObserver receives the size and write time of each snapshot.
type SnapshotObserver interface {
	ObserveSnapshot(size int64, d time.Duration)
}

// SnapshotInfo describes a snapshot file.
type SnapshotInfo struct {
	Path    string        `json:"path" yaml:"path"`
	Codec   string        `json:"codec" yaml:"codec"`
	Bytes   int64         `json:"bytes" yaml:"bytes"`
	Entries int           `json:"entries" yaml:"entries"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteSnapshot writes m to path with the named codec. The file is
// written to a temporary name in the same directory and renamed into
// place, so readers never see a partial file. obs may be nil.
func WriteSnapshot[V any](m *rwmap.Map[string, V], path, codecName string, obs SnapshotObserver) (*SnapshotInfo, error) {
	c, err := rwmap.CodecByName(codecName)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after rename

	start := time.Now()
	bw := bufio.NewWriter(tmp)
	cw := &countingWriter{w: bw}
	if err := m.Snapshot(cw, c); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("flush snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("rename snapshot: %w", err)
	}
	elapsed := time.Since(start)

	if obs != nil {
		obs.ObserveSnapshot(cw.n, elapsed)
	}
	return &SnapshotInfo{
		Path:    path,
		Codec:   c.Name(),
		Bytes:   cw.n,
		Entries: m.Len(),
		Elapsed: elapsed,
	}, nil
}

// ReadSnapshot loads a snapshot file into a new map with the named
// backing.
func ReadSnapshot(path, codecName, backing string) (*rwmap.Map[string, int64], *SnapshotInfo, error) {
	c, err := rwmap.CodecByName(codecName)
	if err != nil {
		return nil, nil, err
	}
	m, err := NewMap(backing, nil)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat snapshot: %w", err)
	}

	start := time.Now()
	if err := m.Restore(bufio.NewReader(f), c); err != nil {
		return nil, nil, err
	}
	return m, &SnapshotInfo{
		Path:    path,
		Codec:   c.Name(),
		Bytes:   st.Size(),
		Entries: m.Len(),
		Elapsed: time.Since(start),
	}, nil
}
