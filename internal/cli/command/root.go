package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rwlockmap/internal/bench/config"
	"github.com/yndnr/rwlockmap/internal/cli/output"
	"github.com/yndnr/rwlockmap/internal/infra/buildinfo"
	"github.com/yndnr/rwlockmap/internal/infra/confloader"
	"github.com/yndnr/rwlockmap/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "rwmap-bench",
		Usage:   "Drive and inspect a reader/writer-locked concurrent map",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			RestoreCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		HideVersion: true,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			EnvVars: []string{"RWMAP_OUTPUT"},
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
	}
}

// configFlags are shared by commands that load the bench configuration.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"RWMAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Output string // table, json, yaml
	Wide   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Output: c.String("output"),
		Wide:   c.Bool("wide"),
	}
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"workers":      "workload.workers",
	"duration":     "workload.duration",
	"read-ratio":   "workload.read_ratio",
	"keys":         "workload.keys",
	"rate":         "workload.rate",
	"backing":      "workload.backing",
	"seed":         "workload.seed",
	"snapshot":     "snapshot.path",
	"codec":        "snapshot.codec",
	"metrics-addr": "metrics.addr",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// setFlags returns the configuration overrides for flags the user set.
func setFlags(c *cli.Context) map[string]any {
	flags := make(map[string]any)
	for name, key := range flagKeys {
		if c.IsSet(name) {
			flags[key] = c.Value(name)
		}
	}
	return flags
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then RWMAP_ environment variables, then flags.
func loadConfig(c *cli.Context) (*config.Config, *confloader.Loader, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithFlags(setFlags(c))}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, loader, nil
}

// initLogger creates the process logger writing to w and makes it the default.
func initLogger(cfg *config.Config, w io.Writer) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}

// printResult writes data in the format selected by --output.
func printResult(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, flags.Wide).Format(writer(c), data)
}

func writer(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
