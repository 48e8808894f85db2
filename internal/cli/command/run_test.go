package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type runOutput struct {
	RunID    string            `json:"run_id"`
	Backing  string            `json:"backing"`
	Workers  int               `json:"workers"`
	Reads    uint64            `json:"reads"`
	Writes   uint64            `json:"writes"`
	PerOp    map[string]uint64 `json:"per_op"`
	Snapshot *struct {
		Path    string `json:"path"`
		Codec   string `json:"codec"`
		Bytes   int64  `json:"bytes"`
		Entries int    `json:"entries"`
	} `json:"snapshot"`
}

func TestRunCommand(t *testing.T) {
	stdout, stderr, err := runApp(t, "-o", "json", "run",
		"--workers", "2",
		"--duration", "100ms",
		"--keys", "64",
		"--backing", "sorted",
		"--log-format", "json",
	)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, stderr)
	}

	var out runOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, stdout)
	}
	if out.Backing != "sorted" || out.Workers != 2 {
		t.Errorf("backing/workers = %s/%d, want sorted/2", out.Backing, out.Workers)
	}
	if out.Reads+out.Writes == 0 {
		t.Error("no operations reported")
	}
	if out.Snapshot != nil {
		t.Error("snapshot should be omitted when not requested")
	}
	if !strings.Contains(stderr, `"msg":"workload finished"`) {
		t.Errorf("expected JSON log line on stderr, got:\n%s", stderr)
	}
}

func TestRunCommand_SnapshotAndRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.msgpack")

	stdout, stderr, err := runApp(t, "-o", "json", "run",
		"--workers", "2",
		"--duration", "50ms",
		"--keys", "32",
		"--snapshot", path,
		"--codec", "msgpack",
	)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, stderr)
	}

	var out runOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, stdout)
	}
	if out.Snapshot == nil {
		t.Fatal("snapshot missing from report")
	}
	if out.Snapshot.Codec != "msgpack" || out.Snapshot.Path != path {
		t.Errorf("snapshot = %+v", out.Snapshot)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file: %v", err)
	}

	stdout, _, err = runApp(t, "-o", "json", "restore", path)
	if err != nil {
		t.Fatalf("restore error = %v", err)
	}
	var info struct {
		Codec   string `json:"codec"`
		Bytes   int64  `json:"bytes"`
		Entries int    `json:"entries"`
		Size    string `json:"size"`
	}
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, stdout)
	}
	if info.Codec != "msgpack" {
		t.Errorf("codec = %q, want msgpack from extension", info.Codec)
	}
	if info.Entries != out.Snapshot.Entries || info.Bytes != out.Snapshot.Bytes {
		t.Errorf("restore info = %+v, want entries %d bytes %d", info, out.Snapshot.Entries, out.Snapshot.Bytes)
	}
	if info.Size == "" {
		t.Error("size should be set")
	}
}

func TestRunCommand_InvalidFlag(t *testing.T) {
	_, _, err := runApp(t, "run", "--read-ratio", "2")
	if err == nil || !strings.Contains(err.Error(), "read_ratio") {
		t.Errorf("run error = %v, want read_ratio validation error", err)
	}
}

func TestRunCommand_Progress(t *testing.T) {
	_, stderr, err := runApp(t, "run",
		"--workers", "1",
		"--duration", "300ms",
		"--keys", "16",
		"--progress",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(stderr, "100%") {
		t.Errorf("progress line missing from stderr:\n%q", stderr)
	}
}
