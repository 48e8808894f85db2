package bench

import (
	"fmt"
	"math/rand/v2"

	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

// Op identifies a workload operation.
type Op int

// Workload operations. Ops from OpPut on take the write lock.
const (
	OpGet Op = iota
	OpContains
	OpScan
	OpPut
	OpMerge
	OpCompute
	OpDelete
)

var opNames = [...]string{
	OpGet:      "get",
	OpContains: "contains",
	OpScan:     "scan",
	OpPut:      "put",
	OpMerge:    "merge",
	OpCompute:  "compute",
	OpDelete:   "delete",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// IsWrite reports whether o takes the write lock.
func (o Op) IsWrite() bool {
	return o >= OpPut
}

// scanLimit bounds the entries visited by one scan.
const scanLimit = 64

// keyName returns the key for index i. Keys are zero padded so the
// sorted backing orders them numerically.
func keyName(i int) string {
	return fmt.Sprintf("key-%08d", i)
}

// chooser picks operations and keys for one worker.
type chooser struct {
	rng       *rand.Rand
	readRatio float64
	keys      int
}

func newChooser(seed uint64, worker int, readRatio float64, keys int) *chooser {
	return &chooser{
		rng:       rand.New(rand.NewPCG(seed, uint64(worker))),
		readRatio: readRatio,
		keys:      keys,
	}
}

func (c *chooser) key() string {
	return keyName(c.rng.IntN(c.keys))
}

// op picks a read with probability readRatio, then weights inside the
// read and write groups.
func (c *chooser) op() Op {
	p := c.rng.Float64()
	if p < c.readRatio {
		switch q := c.rng.IntN(10); {
		case q < 8:
			return OpGet
		case q < 9:
			return OpContains
		default:
			return OpScan
		}
	}
	switch q := c.rng.IntN(10); {
	case q < 4:
		return OpPut
	case q < 7:
		return OpMerge
	case q < 9:
		return OpCompute
	default:
		return OpDelete
	}
}

func sum(old, v int64) (int64, bool) {
	return old + v, true
}

// execute runs op against m.
func (c *chooser) execute(m *rwmap.Map[string, int64], op Op) {
	key := c.key()
	switch op {
	case OpGet:
		m.Get(key)
	case OpContains:
		m.ContainsKey(key)
	case OpScan:
		m.WithRead(func(v rwmap.EntryView[string, int64]) {
			n := 0
			for range v.All() {
				n++
				if n == scanLimit {
					break
				}
			}
		})
	case OpPut:
		m.Put(key, c.rng.Int64N(1000))
	case OpMerge:
		m.Merge(key, 1, sum)
	case OpCompute:
		m.Compute(key, func(_ string, v int64, loaded bool) (int64, bool) {
			if !loaded {
				return 1, true
			}
			// Drop keys that grew large so the map does not saturate.
			return v * 2, v < 1<<20
		})
	case OpDelete:
		m.Delete(key)
	}
}
