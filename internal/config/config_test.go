package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	cfg := DefaultRuntimeConfig()
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("unexpected backend default: %q", cfg.BackendURL)
	}
	if cfg.RevealThresholdPx != 30 || cfg.CommitThresholdPx != 100 || cfg.CellWidthPx != 8 {
		t.Fatalf("unexpected gesture defaults: %+v", cfg)
	}
	if cfg.LoginRetryAttempts != 5 || cfg.LoginRetryBackoff != 700*time.Millisecond {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.StatePath != filepath.Join("/tmp/xdg", "taskdeck", "state.db") {
		t.Fatalf("unexpected state path: %q", cfg.StatePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKDECK_BACKEND_URL", "https://api.example.com")
	t.Setenv("TASKDECK_STATE_FILE", "state/custom.db")
	t.Setenv("TASKDECK_HTTP_TIMEOUT", "15s")
	t.Setenv("TASKDECK_LOGIN_RETRY_ATTEMPTS", "3")
	t.Setenv("TASKDECK_LOGIN_RETRY_BACKOFF", "250ms")
	t.Setenv("TASKDECK_CELL_WIDTH_PX", "10")
	t.Setenv("TASKDECK_THEME", "LIGHT")
	t.Setenv("TASKDECK_SORT", "due_asc")
	t.Setenv("TASKDECK_REVEAL_PX", "not-a-number")
	t.Setenv("TASKDECK_DEBUG", "yes")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.BackendURL != "https://api.example.com" || cfg.StatePath != "state/custom.db" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.HTTPTimeout != 15*time.Second || cfg.LoginRetryAttempts != 3 || cfg.LoginRetryBackoff != 250*time.Millisecond {
		t.Fatalf("unexpected timing overrides: %+v", cfg)
	}
	if cfg.CellWidthPx != 10 || cfg.RevealThresholdPx != 30 {
		t.Fatalf("unexpected gesture overrides: %+v", cfg)
	}
	if cfg.Theme != "light" || cfg.DefaultSort != model.SortDueAsc || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected ui overrides: %+v", cfg)
	}
}

func TestLoadFileOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `backend_url: http://tasks.internal:9000
http_timeout: 5s
login:
  retry_attempts: 2
  retry_backoff: 1s
gesture:
  commit_px: 120
theme: light
default_sort: priority_desc
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path, DefaultRuntimeConfig())
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.BackendURL != "http://tasks.internal:9000" || cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
	if cfg.LoginRetryAttempts != 2 || cfg.LoginRetryBackoff != time.Second {
		t.Fatalf("unexpected login values: %+v", cfg)
	}
	if cfg.CommitThresholdPx != 120 || cfg.RevealThresholdPx != 30 {
		t.Fatalf("unexpected gesture values: %+v", cfg)
	}
	if cfg.Theme != "light" || cfg.DefaultSort != model.SortPriorityDesc {
		t.Fatalf("unexpected ui values: %+v", cfg)
	}
}

func TestLoadFileMissingAndInvalid(t *testing.T) {
	base := DefaultRuntimeConfig()
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), base)
	if err != nil || cfg != base {
		t.Fatalf("missing file should return base, got %+v err=%v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http_timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path, base); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.CommitThresholdPx = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected threshold validation error")
	}
	cfg = DefaultRuntimeConfig()
	cfg.Theme = "neon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected theme validation error")
	}
}

func TestOpenLoggerWritesFile(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "taskdeck.log")
	cfg.LogLevel = "debug"

	logger, closer, err := OpenLogger(cfg)
	if err != nil {
		t.Fatalf("open logger: %v", err)
	}
	logger.Debug("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output")
	}
	if ParseLevel("warning") != slog.LevelWarn || ParseLevel("???") != slog.LevelInfo {
		t.Fatal("unexpected level parsing")
	}
}
