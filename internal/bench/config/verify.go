package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/yndnr/rwlockmap/internal/telemetry/logger"
	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

// Validation errors.
var (
	ErrWorkers   = errors.New("workload.workers must be at least 1")
	ErrKeys      = errors.New("workload.keys must be at least 1")
	ErrReadRatio = errors.New("workload.read_ratio must be between 0 and 1")
	ErrRate      = errors.New("workload.rate must not be negative")
	ErrDuration  = errors.New("workload.duration must not be negative")
	ErrBacking   = errors.New("workload.backing must be hash or sorted")
	ErrLogLevel  = errors.New("log.level must be debug, info, warn or error")
	ErrLogFormat = errors.New("log.format must be text or json")
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyWorkload(&cfg.Workload); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyWorkload(cfg *WorkloadSection) error {
	if cfg.Workers < 1 {
		return ErrWorkers
	}
	if cfg.Keys < 1 {
		return ErrKeys
	}
	if cfg.ReadRatio < 0 || cfg.ReadRatio > 1 {
		return ErrReadRatio
	}
	if cfg.Rate < 0 {
		return ErrRate
	}
	if cfg.Duration < 0 {
		return ErrDuration
	}
	switch cfg.Backing {
	case BackingHash, BackingSorted:
	default:
		return fmt.Errorf("%w: got %q", ErrBacking, cfg.Backing)
	}
	return nil
}

func verifySnapshot(cfg *SnapshotSection) error {
	if cfg.Path == "" {
		return nil
	}
	if _, err := rwmap.CodecByName(cfg.Codec); err != nil {
		return fmt.Errorf("snapshot.codec: %w", err)
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if cfg.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("metrics.addr: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("%w: got %q", ErrLogLevel, cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: got %q", ErrLogFormat, cfg.Format)
	}
	return nil
}
