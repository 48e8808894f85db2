// Package output renders rwmap-bench results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned text tables built from structs, slices and maps
//   - json.go, yaml.go: machine-readable output
//   - progress.go: live progress line for a running workload
//
// Map-valued data is rendered in sorted key order so output is stable
// between runs.
package output
