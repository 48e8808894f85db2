// Package main provides the entry point for rwmap-bench.
//
// rwmap-bench drives an rwmap.Map from many goroutines with a
// configurable read/write mix, reports throughput and lock-wait metrics,
// and writes or inspects map snapshots.
//
// Usage:
//
//	rwmap-bench run --workers 16 --duration 30s --read-ratio 0.95
//	rwmap-bench run --config bench.yaml --metrics-addr :9100 --watch
//	rwmap-bench run --snapshot out.msgpack --codec msgpack
//	rwmap-bench restore --entries out.msgpack
//	rwmap-bench -o yaml config --config bench.yaml
package main
