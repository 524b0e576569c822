package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds stargazer's runtime settings.
type Config struct {
	APIKey            string
	BaseURL           string
	CacheDir          string
	LogFile           string
	Timeout           time.Duration
	PreferHD          bool
	RequestsPerSecond float64
}

// Keys accepted in config.toml and through Set.
const (
	KeyAPIKey            = "api_key"
	KeyBaseURL           = "base_url"
	KeyCacheDir          = "cache_dir"
	KeyLogFile           = "log_file"
	KeyTimeoutSeconds    = "timeout_seconds"
	KeyPreferHD          = "prefer_hd"
	KeyRequestsPerSecond = "requests_per_second"
)

// Keys lists every setting name in file order.
var Keys = []string{
	KeyAPIKey,
	KeyBaseURL,
	KeyCacheDir,
	KeyLogFile,
	KeyTimeoutSeconds,
	KeyPreferHD,
	KeyRequestsPerSecond,
}

const (
	defaultConfigPath        = "~/.config/stargazer/config.toml"
	defaultAPIKey            = "DEMO_KEY"
	defaultBaseURL           = "https://api.nasa.gov"
	defaultCacheDir          = "~/.cache/stargazer/images"
	defaultLogFile           = "~/.local/share/stargazer/stargazer.log"
	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 1.0
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIKey:            defaultAPIKey,
		BaseURL:           defaultBaseURL,
		CacheDir:          mustExpand(defaultCacheDir),
		LogFile:           mustExpand(defaultLogFile),
		Timeout:           defaultTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
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
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIKey            string   `toml:"api_key"`
		BaseURL           string   `toml:"base_url"`
		CacheDir          string   `toml:"cache_dir"`
		LogFile           string   `toml:"log_file"`
		TimeoutSeconds    *int     `toml:"timeout_seconds"`
		PreferHD          bool     `toml:"prefer_hd"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIKey); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.CacheDir); v != "" {
		cfg.CacheDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.TimeoutSeconds != nil && *raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(*raw.TimeoutSeconds) * time.Second
	}
	cfg.PreferHD = raw.PreferHD
	if raw.RequestsPerSecond != nil && *raw.RequestsPerSecond >= 0 {
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}

	return cfg, nil
}

// Set overrides a single setting from its string form, as supplied by flags
// or environment variables. Empty values are ignored.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	switch key {
	case KeyAPIKey:
		c.APIKey = value
	case KeyBaseURL:
		c.BaseURL = value
	case KeyCacheDir:
		c.CacheDir = mustExpand(value)
	case KeyLogFile:
		c.LogFile = mustExpand(value)
	case KeyTimeoutSeconds:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		c.Timeout = time.Duration(n) * time.Second
	case KeyPreferHD:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		c.PreferHD = b
	case KeyRequestsPerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %q", key, value)
		}
		c.RequestsPerSecond = f
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
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
