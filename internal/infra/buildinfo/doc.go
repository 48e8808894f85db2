// Package buildinfo reports how the rwmap-bench binary was built.
//
// Release builds inject values via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/rwlockmap/internal/infra/buildinfo.Version=v1.0.0"
//
// Fields left unset fall back to what the Go toolchain embedded in the
// binary (module version, VCS revision and time, Go version).
package buildinfo
