// Package config resolves runtime settings from defaults, an optional YAML
// file and TASKDECK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the configuration directory name.
	AppName = "taskdeck"

	ConfigFile = "config.yaml"
	StateFile  = "state.db"
	LogFile    = "taskdeck.log"

	DefaultBackendURL = "http://localhost:8000"
)

type RuntimeConfig struct {
	BackendURL         string
	StatePath          string
	LogFile            string
	LogLevel           string
	HTTPTimeout        time.Duration
	LoginRetryAttempts int
	LoginRetryBackoff  time.Duration
	RevealThresholdPx  int
	CommitThresholdPx  int
	CellWidthPx        int
	Theme              string
	DefaultSort        model.SortOrder
	DeadlineBuffer     int
}

func DefaultRuntimeConfig() RuntimeConfig {
	dir := DefaultConfigDir()
	return RuntimeConfig{
		BackendURL:         DefaultBackendURL,
		StatePath:          filepath.Join(dir, StateFile),
		LogFile:            filepath.Join(dir, LogFile),
		LogLevel:           "info",
		LoginRetryAttempts: 5,
		LoginRetryBackoff:  700 * time.Millisecond,
		RevealThresholdPx:  30,
		CommitThresholdPx:  100,
		CellWidthPx:        8,
		Theme:              "dark",
		DefaultSort:        model.SortCreatedDesc,
		DeadlineBuffer:     16,
	}
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

// fileConfig mirrors RuntimeConfig for YAML; durations are strings such as "700ms".
type fileConfig struct {
	BackendURL  string `yaml:"backend_url,omitempty"`
	StatePath   string `yaml:"state_path,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	HTTPTimeout string `yaml:"http_timeout,omitempty"`
	Login       struct {
		RetryAttempts int    `yaml:"retry_attempts,omitempty"`
		RetryBackoff  string `yaml:"retry_backoff,omitempty"`
	} `yaml:"login,omitempty"`
	Gesture struct {
		RevealPx    int `yaml:"reveal_px,omitempty"`
		CommitPx    int `yaml:"commit_px,omitempty"`
		CellWidthPx int `yaml:"cell_width_px,omitempty"`
	} `yaml:"gesture,omitempty"`
	Theme       string `yaml:"theme,omitempty"`
	DefaultSort string `yaml:"default_sort,omitempty"`
}

// LoadFile overlays the YAML file at path onto base. A missing file is not an error.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := base
	if v := strings.TrimSpace(fc.BackendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := strings.TrimSpace(fc.StatePath); v != "" {
		cfg.StatePath = v
	}
	if v := strings.TrimSpace(fc.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(fc.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return base, fmt.Errorf("config: http_timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if fc.Login.RetryAttempts > 0 {
		cfg.LoginRetryAttempts = fc.Login.RetryAttempts
	}
	if fc.Login.RetryBackoff != "" {
		d, err := time.ParseDuration(fc.Login.RetryBackoff)
		if err != nil {
			return base, fmt.Errorf("config: login.retry_backoff: %w", err)
		}
		cfg.LoginRetryBackoff = d
	}
	if fc.Gesture.RevealPx > 0 {
		cfg.RevealThresholdPx = fc.Gesture.RevealPx
	}
	if fc.Gesture.CommitPx > 0 {
		cfg.CommitThresholdPx = fc.Gesture.CommitPx
	}
	if fc.Gesture.CellWidthPx > 0 {
		cfg.CellWidthPx = fc.Gesture.CellWidthPx
	}
	if fc.Theme != "" {
		cfg.Theme = strings.ToLower(fc.Theme)
	}
	if fc.DefaultSort != "" {
		order, err := model.ParseSortOrder(fc.DefaultSort)
		if err != nil {
			return base, fmt.Errorf("config: default_sort: %w", err)
		}
		cfg.DefaultSort = order
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKDECK_BACKEND_URL"); ok {
		cfg.BackendURL = v
	}
	if v, ok := getEnvString("TASKDECK_STATE_FILE"); ok {
		cfg.StatePath = v
	}
	if v, ok := getEnvString("TASKDECK_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKDECK_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvDuration("TASKDECK_HTTP_TIMEOUT"); ok && v >= 0 {
		cfg.HTTPTimeout = v
	}
	if v, ok := getEnvInt("TASKDECK_LOGIN_RETRY_ATTEMPTS"); ok && v > 0 {
		cfg.LoginRetryAttempts = v
	}
	if v, ok := getEnvDuration("TASKDECK_LOGIN_RETRY_BACKOFF"); ok && v > 0 {
		cfg.LoginRetryBackoff = v
	}
	if v, ok := getEnvInt("TASKDECK_REVEAL_PX"); ok && v > 0 {
		cfg.RevealThresholdPx = v
	}
	if v, ok := getEnvInt("TASKDECK_COMMIT_PX"); ok && v > 0 {
		cfg.CommitThresholdPx = v
	}
	if v, ok := getEnvInt("TASKDECK_CELL_WIDTH_PX"); ok && v > 0 {
		cfg.CellWidthPx = v
	}
	if v, ok := getEnvString("TASKDECK_THEME"); ok {
		cfg.Theme = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKDECK_SORT"); ok {
		if order, err := model.ParseSortOrder(v); err == nil {
			cfg.DefaultSort = order
		}
	}
	if v, ok := getEnvInt("TASKDECK_DEADLINE_BUFFER"); ok && v > 0 {
		cfg.DeadlineBuffer = v
	}
	if v, ok := getEnvBool("TASKDECK_DEBUG"); ok && v {
		cfg.LogLevel = "debug"
	}
	return cfg
}

// Load resolves defaults, then the file at path (DefaultConfigPath when
// empty), then the environment.
func Load(path string) (RuntimeConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := LoadFile(path, DefaultRuntimeConfig())
	if err != nil {
		return cfg, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	return cfg, cfg.Validate()
}

func (c RuntimeConfig) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return errors.New("config: backend url is required")
	}
	if c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("config: unknown theme %q", c.Theme)
	}
	if c.CommitThresholdPx <= c.RevealThresholdPx {
		return fmt.Errorf("config: commit threshold %dpx must exceed reveal threshold %dpx", c.CommitThresholdPx, c.RevealThresholdPx)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
