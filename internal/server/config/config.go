package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/bytes"
)

// Config holds the server configuration, read from the environment.
type Config struct {
	ListenAddr      string
	DatabaseURL     string
	MaxOpenConns    int
	StoreTimeout    time.Duration
	LoadFixtures    bool
	CacheSize       int
	CacheTTL        time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	BodyLimit       string
	CheckpointEvery time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
	LogFormat       string
	TracingEnabled  bool
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset. Malformed values are reported, not ignored.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", "files.db"),
		BodyLimit:   getEnv("BODY_LIMIT", "1M"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = getEnvDuration("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.LoadFixtures, err = getEnvBool("LOAD_FIXTURES", true); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = getEnvInt("CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat64("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.CheckpointEvery, err = getEnvDuration("CHECKPOINT_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.TracingEnabled, err = getEnvBool("TRACING_ENABLED", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("LISTEN_ADDR: must not be empty")
	case c.DatabaseURL == "":
		return fmt.Errorf("DATABASE_URL: must not be empty")
	case c.MaxOpenConns <= 0:
		return fmt.Errorf("DB_MAX_OPEN_CONNS: must be > 0, got %d", c.MaxOpenConns)
	case c.StoreTimeout <= 0:
		return fmt.Errorf("STORE_TIMEOUT: must be > 0, got %s", c.StoreTimeout)
	case c.CacheSize < 0:
		return fmt.Errorf("CACHE_SIZE: must be >= 0, got %d", c.CacheSize)
	case c.RateLimitRPS <= 0:
		return fmt.Errorf("RATE_LIMIT_RPS: must be > 0, got %v", c.RateLimitRPS)
	case c.RateLimitBurst <= 0:
		return fmt.Errorf("RATE_LIMIT_BURST: must be > 0, got %d", c.RateLimitBurst)
	case !validBodyLimit(c.BodyLimit):
		return fmt.Errorf("BODY_LIMIT: invalid size %q (use 512K, 1M, 2MB)", c.BodyLimit)
	case c.CheckpointEvery < 0:
		return fmt.Errorf("CHECKPOINT_INTERVAL: must be >= 0, got %s", c.CheckpointEvery)
	case c.LogFormat != "json" && c.LogFormat != "text":
		return fmt.Errorf("LOG_FORMAT: unsupported format %q (json, text)", c.LogFormat)
	}
	return nil
}

// validBodyLimit reports whether limit parses the way echo's BodyLimit
// middleware parses it.
func validBodyLimit(limit string) bool {
	n, err := bytes.Parse(limit)
	return err == nil && n > 0
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}

func getEnvFloat64(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, val)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, val)
	}
	return b, nil
}

// getEnvDuration accepts Go duration syntax (30s, 5m, 1h).
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q (use 30s, 5m, 1h)", key, val)
	}
	return d, nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL: unsupported level %q", level)
	}
}
