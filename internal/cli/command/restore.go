package command

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rwlockmap/internal/bench"
	"github.com/yndnr/rwlockmap/internal/bench/config"
	"github.com/yndnr/rwlockmap/internal/cli/output"
	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

// ErrMissingFile is returned when restore is called without a file.
var ErrMissingFile = errors.New("snapshot file argument is required")

// RestoreCommand returns the restore command.
func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Load a snapshot file and report its contents",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "codec",
				Usage: "Snapshot codec: json, gob, msgpack (default: from file extension)",
			},
			&cli.StringFlag{
				Name:  "backing",
				Usage: "Map backing to load into: hash, sorted",
				Value: config.BackingSorted,
			},
			&cli.BoolFlag{
				Name:  "entries",
				Usage: "Print the entries",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum entries to print (0 prints all)",
				Value: 20,
			},
		},
		Action: restoreSnapshot,
	}
}

// restoreReport is what restore prints without --entries.
type restoreReport struct {
	bench.SnapshotInfo `yaml:",inline"`
	Size               string `json:"size" yaml:"size"`
}

func restoreSnapshot(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return ErrMissingFile
	}

	codec := c.String("codec")
	if codec == "" {
		codec = codecFromPath(path)
	}

	m, info, err := bench.ReadSnapshot(path, codec, c.String("backing"))
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}

	if !c.Bool("entries") {
		return printResult(c, restoreReport{
			SnapshotInfo: *info,
			Size:         output.FormatBytes(info.Bytes),
		})
	}
	return printResult(c, entryTable(m, c.Int("limit")))
}

// entryTable lists up to limit entries in backing iteration order while
// holding the read handle.
func entryTable(m *rwmap.Map[string, int64], limit int) *output.Table {
	table := &output.Table{Headers: []string{"KEY", "VALUE"}}

	g := m.ReadHandle().Acquire()
	defer g.Release()
	for k, v := range m.Entries().All() {
		if limit > 0 && len(table.Rows) == limit {
			break
		}
		table.AddRow(k, strconv.FormatInt(v, 10))
	}
	return table
}

// codecFromPath picks a codec from the file extension, defaulting to JSON.
func codecFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gob":
		return rwmap.CodecGob
	case ".msgpack", ".mpk":
		return rwmap.CodecMsgpack
	default:
		return rwmap.CodecJSON
	}
}
