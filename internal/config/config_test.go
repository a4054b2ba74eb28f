package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.APIBaseURL)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad(t *testing.T) {
	t.Run("yaml file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "postboard.yaml")
		require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\nrequest_timeout: 3s\nlog_format: json\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Listen)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "postboard.yaml")
		require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o600))
		t.Setenv("POSTBOARD_LISTEN", ":7070")
		t.Setenv("POSTBOARD_API_URL", "http://localhost:3000")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Listen)
		assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	})

	t.Run("probe can be disabled", func(t *testing.T) {
		t.Setenv("POSTBOARD_PROBE_INTERVAL", "0s")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Zero(t, cfg.ProbeInterval)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("listne: \":1\"\n"), 0o600))

		_, err := Load(path)
		assert.ErrorContains(t, err, "decode config")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "open config")
	})

	t.Run("bad duration in environment", func(t *testing.T) {
		t.Setenv("POSTBOARD_REQUEST_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "POSTBOARD_REQUEST_TIMEOUT")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "relative url", mutate: func(c *Config) { c.APIBaseURL = "/posts" }, want: "absolute url"},
		{name: "empty listen", mutate: func(c *Config) { c.Listen = "" }, want: "listen"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, want: "request timeout"},
		{name: "negative shutdown", mutate: func(c *Config) { c.ShutdownTimeout = -time.Second }, want: "shutdown timeout"},
		{name: "negative probe", mutate: func(c *Config) { c.ProbeInterval = -time.Second }, want: "probe interval"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, want: "log level"},
		{name: "log format", mutate: func(c *Config) { c.LogFormat = "xml" }, want: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("json honours level", func(t *testing.T) {
		cfg := Default()
		cfg.LogFormat = "json"
		cfg.LogLevel = "warn"

		var buf bytes.Buffer
		logger := cfg.Logger(&buf)
		logger.Info("hidden")
		logger.Warn("shown", "k", 1)

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.True(t, strings.HasPrefix(out, "{"), out)
		assert.Contains(t, out, `"msg":"shown"`)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		Default().Logger(&buf).Info("hello", "store", "posts")
		assert.Contains(t, buf.String(), "msg=hello store=posts")
	})
}
