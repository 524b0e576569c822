package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultAPIKey, cfg.APIKey)
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultRequestsPerSecond, cfg.RequestsPerSecond)
	assert.Equal(t, filepath.Join(home, ".cache", "stargazer", "images"), cfg.CacheDir)
	assert.Equal(t, filepath.Join(home, ".local", "share", "stargazer", "stargazer.log"), cfg.LogFile)
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_key = "  abc123  "
base_url = "http://localhost:8080"
cache_dir = "  ~/pics  "
log_file = "~/logs/sg.log"
timeout_seconds = 5
prefer_hd = true
requests_per_second = 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.APIKey)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, filepath.Join(home, "pics"), cfg.CacheDir)
	assert.Equal(t, filepath.Join(home, "logs", "sg.log"), cfg.LogFile)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.PreferHD)
	assert.Zero(t, cfg.RequestsPerSecond)
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_key = "   "
cache_dir = ""
timeout_seconds = 0
requests_per_second = -3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_key = [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestSet_AppliesOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	overrides := map[string]string{
		KeyAPIKey:            "override",
		KeyBaseURL:           "http://localhost:9000",
		KeyCacheDir:          "~/elsewhere",
		KeyLogFile:           "~/sg.log",
		KeyTimeoutSeconds:    "12",
		KeyPreferHD:          "true",
		KeyRequestsPerSecond: "2.5",
	}
	for k, v := range overrides {
		require.NoError(t, cfg.Set(k, v), "Set(%q, %q)", k, v)
	}
	assert.Equal(t, "override", cfg.APIKey)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, filepath.Join(home, "elsewhere"), cfg.CacheDir)
	assert.Equal(t, filepath.Join(home, "sg.log"), cfg.LogFile)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.True(t, cfg.PreferHD)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
}

func TestSet_RejectsBadValues(t *testing.T) {
	cfg := Default()
	bad := [][2]string{
		{KeyTimeoutSeconds, "soon"},
		{KeyTimeoutSeconds, "-1"},
		{KeyPreferHD, "maybe"},
		{KeyRequestsPerSecond, "-2"},
		{"colour", "blue"},
	}
	for _, kv := range bad {
		assert.Error(t, cfg.Set(kv[0], kv[1]), "Set(%q, %q)", kv[0], kv[1])
	}

	require.NoError(t, cfg.Set(KeyAPIKey, "  "))
	assert.Equal(t, defaultAPIKey, cfg.APIKey, "empty override must keep the current value")
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a", "b"), got)

	_, err = expandPath("   ")
	assert.Error(t, err)
}
