package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
	Workload struct {
		Workers   int           `koanf:"workers"`
		ReadRatio float64       `koanf:"read_ratio"`
		Duration  time.Duration `koanf:"duration"`
	} `koanf:"workload"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
workload:
  workers: 4
  read_ratio: 0.75
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if lvl := l.All()["log.level"]; lvl != "debug" {
		t.Errorf("log.level = %v, want %q", lvl, "debug")
	}
	if n := l.All()["workload.workers"]; n != 4 {
		t.Errorf("workload.workers = %v, want 4", n)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("RWMAP_LOG__LEVEL", "warn")
	t.Setenv("RWMAP_WORKLOAD__READ_RATIO", "0.5")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if lvl := l.All()["log.level"]; lvl != "warn" {
		t.Errorf("log.level = %v, want %q", lvl, "warn")
	}
	if r := l.All()["workload.read_ratio"]; r != "0.5" {
		t.Errorf("workload.read_ratio = %v, want %q", r, "0.5")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER__PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if port := l.All()["server.port"]; port != "9090" {
		t.Errorf("server.port = %v, want %q", port, "9090")
	}
}

func TestLoader_EnvKey(t *testing.T) {
	l := NewLoader()
	tests := []struct {
		in   string
		want string
	}{
		{"RWMAP_LOG__LEVEL", "log.level"},
		{"RWMAP_WORKLOAD__READ_RATIO", "workload.read_ratio"},
		{"RWMAP_OUTPUT", "output"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := l.envKey(tt.in); got != tt.want {
				t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"workload.workers": 16,
		"debug":            true,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if n := l.All()["workload.workers"]; n != 16 {
		t.Errorf("workload.workers = %v, want 16", n)
	}
	if l.All()["debug"] != true {
		t.Error("debug should be true")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
workload:
  workers: 2
  read_ratio: 0.1
`)
	t.Setenv("RWMAP_WORKLOAD__WORKERS", "8")
	t.Setenv("RWMAP_WORKLOAD__READ_RATIO", "0.2")

	l := NewLoader(
		WithConfigFile(path),
		WithFlags(map[string]any{"workload.read_ratio": 0.3}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want %q (file only)", cfg.Log.Level, "debug")
	}
	if cfg.Workload.Workers != 8 {
		t.Errorf("Workers = %d, want 8 (env should override file)", cfg.Workload.Workers)
	}
	if cfg.Workload.ReadRatio != 0.3 {
		t.Errorf("ReadRatio = %v, want 0.3 (flag should override env)", cfg.Workload.ReadRatio)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")

	var cfg testConfig
	cfg.Workload.Workers = 3
	cfg.Workload.Duration = 5 * time.Second

	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workload.Workers != 3 {
		t.Errorf("Workers = %d, want default 3", cfg.Workload.Workers)
	}
	if cfg.Workload.Duration != 5*time.Second {
		t.Errorf("Duration = %v, want default 5s", cfg.Workload.Duration)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "error")
	}
}

func TestLoader_Unmarshal_Duration(t *testing.T) {
	path := writeConfig(t, "workload:\n  duration: 1m30s\n")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workload.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", cfg.Workload.Duration)
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	l := NewLoader(WithConfigFile(path))
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := l.Reload(&cfg); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level after reload = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoader_All(t *testing.T) {
	var cfg testConfig
	cfg.Workload.Workers = 8
	l := NewLoader(WithFlags(map[string]any{"log.level": "debug"}))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	all := l.All()
	if all["log.level"] != "debug" {
		t.Errorf("All()[log.level] = %v, want debug", all["log.level"])
	}
	if _, ok := all["workload.workers"]; ok {
		t.Error("All() should not include struct defaults")
	}
}

func TestMapProvider_ReadBytes(t *testing.T) {
	if _, err := mapProvider(nil).ReadBytes(); err != ErrReadBytesNotSupported {
		t.Errorf("ReadBytes() error = %v, want ErrReadBytesNotSupported", err)
	}
}
