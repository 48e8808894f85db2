package config

import "time"

// Config is the root configuration for rwmap-bench.
type Config struct {
	Workload WorkloadSection `koanf:"workload" json:"workload" yaml:"workload"`
	Snapshot SnapshotSection `koanf:"snapshot" json:"snapshot" yaml:"snapshot"`
	Metrics  MetricsSection  `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log      LogSection      `koanf:"log" json:"log" yaml:"log"`
}

// WorkloadSection configures the operation mix driven against the map.
type WorkloadSection struct {
	// Workers is the number of goroutines issuing operations.
	Workers int `koanf:"workers" json:"workers" yaml:"workers"`

	// Duration bounds the run. Zero runs until interrupted.
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`

	// ReadRatio is the fraction of operations that only read (0..1).
	ReadRatio float64 `koanf:"read_ratio" json:"read_ratio" yaml:"read_ratio"`

	// Keys is the size of the key space.
	Keys int `koanf:"keys" json:"keys" yaml:"keys"`

	// Rate caps total operations per second across all workers.
	// Zero means unlimited.
	Rate float64 `koanf:"rate" json:"rate" yaml:"rate"`

	// Backing selects the map implementation: "hash" or "sorted".
	Backing string `koanf:"backing" json:"backing" yaml:"backing"`

	// Seed makes key selection reproducible. Zero picks a random seed.
	Seed uint64 `koanf:"seed" json:"seed" yaml:"seed"`
}

// SnapshotSection configures the snapshot written at the end of a run.
type SnapshotSection struct {
	// Path is the output file. Empty disables the snapshot.
	Path string `koanf:"path" json:"path" yaml:"path"`

	// Codec is one of "json", "gob", "msgpack".
	Codec string `koanf:"codec" json:"codec" yaml:"codec"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}
