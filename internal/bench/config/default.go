package config

import "time"

// Default configuration values.
const (
	DefaultWorkers   = 8
	DefaultDuration  = 10 * time.Second
	DefaultReadRatio = 0.9
	DefaultKeys      = 10000
	DefaultBacking   = BackingHash

	DefaultCodec = "json"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Backing names.
const (
	BackingHash   = "hash"
	BackingSorted = "sorted"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Workload: WorkloadSection{
			Workers:   DefaultWorkers,
			Duration:  DefaultDuration,
			ReadRatio: DefaultReadRatio,
			Keys:      DefaultKeys,
			Backing:   DefaultBacking,
		},
		Snapshot: SnapshotSection{
			Codec: DefaultCodec,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
