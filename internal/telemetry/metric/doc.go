// Package metric provides Prometheus metrics for rwmap-bench.
//
// This package implements metrics collection and exposition:
//
//   - server.go: the /metrics HTTP endpoint
//   - prometheus.go: the Registry, the rwmap.Observer implementation and
//     the HTTP handler
//   - collector.go: a scrape-time collector reporting map sizes
//
// Metrics include:
//
//   - Lock wait histograms per lock mode
//   - Map operation counters per operation and mode
//   - Benchmark operation counters and snapshot statistics
//   - Go runtime and process metrics
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
