package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures taskdeck's runtime settings.
type Config struct {
	APIURL             string
	RequestTimeout     time.Duration
	PollInterval       time.Duration // zero disables background refresh
	LogFile            string
	DefaultDescription string
}

const (
	defaultConfigPath     = "~/.config/taskdeck/config.toml"
	defaultLogFile        = "~/.local/state/taskdeck/taskdeck.log"
	defaultAPIURL         = "http://localhost:8000"
	defaultRequestTimeout = 5 * time.Second
	defaultPollInterval   = 30 * time.Second
	defaultDescription    = "Created via Web UI"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:             defaultAPIURL,
		RequestTimeout:     defaultRequestTimeout,
		PollInterval:       defaultPollInterval,
		LogFile:            mustExpand(defaultLogFile),
		DefaultDescription: defaultDescription,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL             string `toml:"api_url"`
		RequestTimeout     string `toml:"request_timeout"`
		PollInterval       string `toml:"poll_interval"`
		LogFile            string `toml:"log_file"`
		DefaultDescription string `toml:"default_description"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout %q must be a positive duration", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("parse config: poll_interval %q must be a non-negative duration", v)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.DefaultDescription); v != "" {
		cfg.DefaultDescription = v
	}

	return cfg, nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
