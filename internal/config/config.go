// Package config loads postboard settings from defaults, an optional YAML
// file and POSTBOARD_* environment variables, in that order of precedence
// (later wins).
//
// Environment variables:
//   - POSTBOARD_API_URL: remote API base URL (default: "https://jsonplaceholder.typicode.com")
//   - POSTBOARD_LISTEN: listen address (default: ":8080")
//   - POSTBOARD_REQUEST_TIMEOUT: remote request timeout, Go duration (default: "10s")
//   - POSTBOARD_SHUTDOWN_TIMEOUT: graceful shutdown timeout (default: "5s")
//   - POSTBOARD_PROBE_INTERVAL: remote API probe interval, 0 disables (default: "30s")
//   - POSTBOARD_LOG_LEVEL: debug, info, warn or error (default: "info")
//   - POSTBOARD_LOG_FORMAT: text or json (default: "text")
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/postboard/internal/api"
)

// Config holds every runtime setting.
type Config struct {
	APIBaseURL      string        `yaml:"api_base_url"`
	Listen          string        `yaml:"listen"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ProbeInterval   time.Duration `yaml:"probe_interval"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIBaseURL:      api.DefaultBaseURL,
		Listen:          ":8080",
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		ProbeInterval:   30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decodeYAML(f); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML overlays the fields present in r onto cfg.
func (c *Config) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// applyEnv overlays the POSTBOARD_* variables returned by getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	lookup := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	duration := func(k string, def time.Duration) (time.Duration, error) {
		v := getenv(k)
		if v == "" {
			return def, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", k, err)
		}
		return d, nil
	}

	c.APIBaseURL = lookup("POSTBOARD_API_URL", c.APIBaseURL)
	c.Listen = lookup("POSTBOARD_LISTEN", c.Listen)
	c.LogLevel = lookup("POSTBOARD_LOG_LEVEL", c.LogLevel)
	c.LogFormat = lookup("POSTBOARD_LOG_FORMAT", c.LogFormat)

	var err error
	if c.RequestTimeout, err = duration("POSTBOARD_REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = duration("POSTBOARD_SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	if c.ProbeInterval, err = duration("POSTBOARD_PROBE_INTERVAL", c.ProbeInterval); err != nil {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api base url %q is not an absolute url", c.APIBaseURL)
	}
	if c.Listen == "" {
		return errors.New("config: listen address is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout %s must be positive", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown timeout %s must be positive", c.ShutdownTimeout)
	}
	if c.ProbeInterval < 0 {
		return fmt.Errorf("config: probe interval %s must not be negative", c.ProbeInterval)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return l, nil
}

// Logger builds the slog logger described by the log settings.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
