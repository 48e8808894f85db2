package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rwlockmap/internal/bench"
	"github.com/yndnr/rwlockmap/internal/bench/config"
	"github.com/yndnr/rwlockmap/internal/cli/output"
	"github.com/yndnr/rwlockmap/internal/infra/confloader"
	"github.com/yndnr/rwlockmap/internal/infra/shutdown"
	"github.com/yndnr/rwlockmap/internal/telemetry/logger"
	"github.com/yndnr/rwlockmap/internal/telemetry/metric"
)

// shutdownTimeout bounds the cleanup hooks after a run.
const shutdownTimeout = 10 * time.Second

// RunCommand returns the run command.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a concurrent workload against the map",
		Flags: append(configFlags(),
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"n"},
				Usage:   "Number of worker goroutines",
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "Run length (0 runs until interrupted)",
			},
			&cli.Float64Flag{
				Name:  "read-ratio",
				Usage: "Fraction of operations that only read (0..1)",
			},
			&cli.IntFlag{
				Name:  "keys",
				Usage: "Size of the key space",
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Total operations per second (0 is unlimited)",
			},
			&cli.StringFlag{
				Name:  "backing",
				Usage: "Map backing: hash, sorted",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Key selection seed (0 picks one)",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Write a snapshot of the map to `PATH` after the run",
			},
			&cli.StringFlag{
				Name:  "codec",
				Usage: "Snapshot codec: json, gob, msgpack",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on `ADDR` during the run",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the log level when the config file changes",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress line on stderr",
			},
		),
		Action: runBench,
	}
}

// runReport is what run prints.
type runReport struct {
	bench.Result `yaml:",inline"`
	Snapshot     *bench.SnapshotInfo `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

func runBench(c *cli.Context) error {
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := initLogger(cfg, errWriter(c))
	if err != nil {
		return err
	}

	reg := metric.NewRegistry()
	runner, err := bench.NewRunner(cfg.Workload,
		bench.WithObserver(reg),
		bench.WithRecorder(reg),
		bench.WithLogger(log),
	)
	if err != nil {
		return err
	}
	reg.TrackMap("workload", runner.Map().Len)

	h := shutdown.NewHandler(shutdownTimeout)
	ctx, stop := h.Context(c.Context)
	defer stop()
	defer h.Shutdown()

	if cfg.Metrics.Addr != "" {
		if err := startMetrics(cfg.Metrics.Addr, reg, h, log); err != nil {
			return err
		}
	}
	if c.Bool("watch") {
		if err := startWatcher(ctx, loader, h, log); err != nil {
			return err
		}
	}

	runner.Preload()

	var progress *output.Progress
	stopProgress := func() {}
	if c.Bool("progress") {
		progress = output.NewProgress(errWriter(c), "run", cfg.Workload.Duration)
		pctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			progress.Run(pctx, 200*time.Millisecond, runner.Ops)
		}()
		stopProgress = func() {
			cancel()
			<-done
		}
	}

	res, err := runner.Run(ctx)
	stopProgress()
	if err != nil {
		return fmt.Errorf("run workload: %w", err)
	}
	reg.IncBenchRuns()
	if progress != nil {
		progress.Finish(res.Elapsed, res.Total())
	}

	report := runReport{Result: *res}
	if cfg.Snapshot.Path != "" {
		info, err := bench.WriteSnapshot(runner.Map(), cfg.Snapshot.Path, cfg.Snapshot.Codec, reg)
		if err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		log.Info("snapshot written",
			"path", info.Path,
			"codec", info.Codec,
			"bytes", info.Bytes,
			"entries", info.Entries,
		)
		report.Snapshot = info
	}

	if err := h.Shutdown(); err != nil {
		log.Warn("shutdown error", "error", err)
	}
	return printResult(c, report)
}

func startMetrics(addr string, reg *metric.Registry, h *shutdown.Handler, log logger.Logger) error {
	srv := metric.NewServer(addr, reg)
	if err := srv.Listen(); err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}
	go func() {
		if err := srv.Serve(); err != nil {
			log.Error("metrics server error", "error", err)
		}
	}()
	log.Info("metrics server listening", "addr", srv.Addr())

	h.OnShutdown(func(ctx context.Context) error {
		log.Debug("shutting down metrics server")
		return srv.Shutdown(ctx)
	})
	return nil
}

func startWatcher(ctx context.Context, loader *confloader.Loader, h *shutdown.Handler, log logger.Logger) error {
	path := loader.FilePath()
	if path == "" {
		log.Warn("--watch has no effect without --config")
		return nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.OnChange(func(string) {
		cfg := config.Default()
		if err := loader.Reload(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if !logger.ValidLevel(cfg.Log.Level) {
			log.Warn("config reload ignored invalid log level", "level", cfg.Log.Level)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	go w.Run(ctx)

	h.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
	return nil
}
