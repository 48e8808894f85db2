// Package config defines the rwmap-bench configuration.
//
// The Config tree mirrors the YAML file layout; koanf tags name the keys.
// Default returns a ready-to-run configuration and Verify rejects values
// the workload runner cannot honor.
package config
