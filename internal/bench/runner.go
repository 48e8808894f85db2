package bench

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/rwlockmap/internal/bench/config"
	"github.com/yndnr/rwlockmap/internal/telemetry/logger"
	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

// RunIDPrefix prefixes every run ID.
const RunIDPrefix = "run-"

// Recorder counts workload operations by kind ("read" or "write").
type Recorder interface {
	RecordBenchOp(kind string)
}

// Result summarizes one run.
type Result struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Backing   string            `json:"backing" yaml:"backing"`
	Workers   int               `json:"workers" yaml:"workers"`
	ReadRatio float64           `json:"read_ratio" yaml:"read_ratio"`
	Elapsed   time.Duration     `json:"elapsed" yaml:"elapsed"`
	Reads     uint64            `json:"reads" yaml:"reads"`
	Writes    uint64            `json:"writes" yaml:"writes"`
	OpsPerSec float64           `json:"ops_per_sec" yaml:"ops_per_sec"`
	Entries   int               `json:"entries" yaml:"entries"`
	PerOp     map[string]uint64 `json:"per_op" yaml:"per_op"`
}

// Total returns the number of operations issued.
func (r *Result) Total() uint64 {
	return r.Reads + r.Writes
}

// Runner drives one map with a worker pool.
type Runner struct {
	cfg      config.WorkloadSection
	m        *rwmap.Map[string, int64]
	recorder Recorder
	logger   logger.Logger
	counts   [OpDelete + 1]atomic.Uint64
}

// Option configures a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	observer rwmap.Observer
	recorder Recorder
	logger   logger.Logger
}

// WithObserver reports lock waits of the runner's map to o.
func WithObserver(o rwmap.Observer) Option {
	return func(opts *runnerOptions) {
		opts.observer = o
	}
}

// WithRecorder counts operations in r.
func WithRecorder(r Recorder) Option {
	return func(opts *runnerOptions) {
		opts.recorder = r
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l logger.Logger) Option {
	return func(opts *runnerOptions) {
		opts.logger = l
	}
}

// NewRunner creates a runner for cfg. cfg must have passed config.Verify.
func NewRunner(cfg config.WorkloadSection, opts ...Option) (*Runner, error) {
	var o runnerOptions
	for _, opt := range opts {
		opt(&o)
	}

	m, err := NewMap(cfg.Backing, o.observer)
	if err != nil {
		return nil, err
	}

	if cfg.Seed == 0 {
		cfg.Seed = randv2.Uint64()
	}
	if o.logger == nil {
		o.logger = logger.Default()
	}

	return &Runner{
		cfg:      cfg,
		m:        m,
		recorder: o.recorder,
		logger:   o.logger,
	}, nil
}

// NewMap creates an empty map with the named backing.
func NewMap(backing string, obs rwmap.Observer) (*rwmap.Map[string, int64], error) {
	eq := func(a, b int64) bool { return a == b }
	var opts []rwmap.Option
	if obs != nil {
		opts = append(opts, rwmap.WithObserver(obs))
	}

	switch strings.ToLower(backing) {
	case config.BackingHash, "":
		return rwmap.NewWith[string, int64](rwmap.NewHashMap[string](eq), opts...), nil
	case config.BackingSorted:
		return rwmap.NewWith[string, int64](rwmap.NewSortedMap[string](eq), opts...), nil
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrBacking, backing)
	}
}

// Map returns the map the runner drives.
func (r *Runner) Map() *rwmap.Map[string, int64] {
	return r.m
}

// Ops returns the number of operations issued so far.
func (r *Runner) Ops() uint64 {
	var n uint64
	for i := range r.counts {
		n += r.counts[i].Load()
	}
	return n
}

// NewRunID returns a fresh, time-ordered run ID.
func NewRunID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return RunIDPrefix + strings.ToLower(id.String()), nil
}

// Preload fills half the key space so early reads hit.
func (r *Runner) Preload() {
	n := r.cfg.Keys / 2
	r.m.PutAllSeq(func(yield func(string, int64) bool) {
		for i := 0; i < n; i++ {
			if !yield(keyName(i*2), int64(i)) {
				return
			}
		}
	})
}

// Run issues operations until the configured duration elapses or ctx
// is canceled. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID, err := NewRunID()
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRunID(logger.WithLogger(ctx, r.logger), runID)
	log := logger.L(ctx)

	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	limiter := r.limiter()
	log.Info("workload started",
		"backing", r.cfg.Backing,
		"workers", r.cfg.Workers,
		"read_ratio", r.cfg.ReadRatio,
		"keys", r.cfg.Keys,
		"rate", r.cfg.Rate,
		"duration", r.cfg.Duration,
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < r.cfg.Workers; w++ {
		g.Go(func() error {
			return r.work(logger.WithWorker(gctx, w), w, limiter)
		})
	}
	err = g.Wait()
	elapsed := time.Since(start)
	if err != nil && !isCancel(err) {
		return nil, err
	}

	res := r.result(runID, elapsed)
	log.Info("workload finished",
		"elapsed", elapsed,
		"reads", res.Reads,
		"writes", res.Writes,
		"ops_per_sec", math.Round(res.OpsPerSec),
		"entries", res.Entries,
	)
	return res, nil
}

func (r *Runner) limiter() *rate.Limiter {
	if r.cfg.Rate <= 0 {
		return nil
	}
	burst := int(r.cfg.Rate / 10)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(r.cfg.Rate), burst)
}

func (r *Runner) work(ctx context.Context, worker int, limiter *rate.Limiter) error {
	c := newChooser(r.cfg.Seed, worker, r.cfg.ReadRatio, r.cfg.Keys)
	logger.L(ctx).Debug("worker started")

	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				// The next token comes after the deadline. Stay in the
				// run until it ends instead of leaving early.
				<-ctx.Done()
				return ctx.Err()
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}

		op := c.op()
		c.execute(r.m, op)
		r.counts[op].Add(1)
		if r.recorder != nil {
			r.recorder.RecordBenchOp(kindOf(op))
		}
	}
}

func kindOf(op Op) string {
	if op.IsWrite() {
		return "write"
	}
	return "read"
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (r *Runner) result(runID string, elapsed time.Duration) *Result {
	res := &Result{
		RunID:     runID,
		Backing:   r.cfg.Backing,
		Workers:   r.cfg.Workers,
		ReadRatio: r.cfg.ReadRatio,
		Elapsed:   elapsed,
		Entries:   r.m.Len(),
		PerOp:     make(map[string]uint64, len(r.counts)),
	}
	for i := range r.counts {
		op := Op(i)
		n := r.counts[i].Load()
		res.PerOp[op.String()] = n
		if op.IsWrite() {
			res.Writes += n
		} else {
			res.Reads += n
		}
	}
	if s := elapsed.Seconds(); s > 0 {
		res.OpsPerSec = float64(res.Total()) / s
	}
	return res
}
