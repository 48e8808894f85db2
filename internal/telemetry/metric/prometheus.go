// Package metric provides Prometheus metrics for rwmap-bench.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

const namespace = "rwmap"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Lock metrics
	LockWait   *prometheus.HistogramVec
	Operations *prometheus.CounterVec

	// Benchmark metrics
	BenchOperations *prometheus.CounterVec
	BenchRuns       prometheus.Counter

	// Snapshot metrics
	SnapshotBytes    prometheus.Gauge
	SnapshotDuration prometheus.Histogram

	maps *MapCollector
}

var _ rwmap.Observer = (*Registry)(nil)

// NewRegistry creates a registry with all rwmap metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		LockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting to acquire the map lock.",
			Buckets:   []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.1, 1},
		}, []string{"mode"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Map operations by operation name and lock mode.",
		}, []string{"op", "mode"}),
		BenchOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bench",
			Name:      "operations_total",
			Help:      "Operations issued by benchmark workers by kind.",
		}, []string{"kind"}),
		BenchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bench",
			Name:      "runs_total",
			Help:      "Completed benchmark runs.",
		}),
		SnapshotBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Size of the last written snapshot.",
		}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_write_duration_seconds",
			Help:      "Time taken to write a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		maps: NewMapCollector(),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.LockWait,
		r.Operations,
		r.BenchOperations,
		r.BenchRuns,
		r.SnapshotBytes,
		r.SnapshotDuration,
		r.maps,
	)

	return r
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveLock implements rwmap.Observer.
func (r *Registry) ObserveLock(op string, mode rwmap.Mode, wait time.Duration) {
	m := mode.String()
	r.LockWait.WithLabelValues(m).Observe(wait.Seconds())
	r.Operations.WithLabelValues(op, m).Inc()
}

// RecordBenchOp counts one benchmark operation of the given kind.
func (r *Registry) RecordBenchOp(kind string) {
	r.BenchOperations.WithLabelValues(kind).Inc()
}

// IncBenchRuns counts a completed benchmark run.
func (r *Registry) IncBenchRuns() {
	r.BenchRuns.Inc()
}

// ObserveSnapshot records the size and write time of a snapshot.
func (r *Registry) ObserveSnapshot(size int64, d time.Duration) {
	r.SnapshotBytes.Set(float64(size))
	r.SnapshotDuration.Observe(d.Seconds())
}

// TrackMap reports the size of a map under the given name on every scrape.
func (r *Registry) TrackMap(name string, size func() int) {
	r.maps.Track(name, size)
}
