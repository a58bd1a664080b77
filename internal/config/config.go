// Package config handles loading the server and CLI configuration.
// Precedence, lowest first: defaults, TOML file, .env file, environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"lexical/internal/logging"
)

// Config holds all configuration for the application.
type Config struct {
	Port            string        `toml:"port"`
	Env             string        `toml:"env"`
	StorageBackend  string        `toml:"storage_backend"` // memory, file, sqlite or postgres
	DataDir         string        `toml:"data_dir"`
	DatabaseURL     string        `toml:"database_url"`
	SessionTimeout  time.Duration `toml:"session_timeout"`
	CookieMaxAge    time.Duration `toml:"cookie_max_age"`
	CleanupInterval time.Duration `toml:"cleanup_interval"`
	TimerInterval   time.Duration `toml:"timer_interval"` // game timer tick
	RateLimitRPS    int           `toml:"rate_limit_rps"`
	RateLimitBurst  int           `toml:"rate_limit_burst"`
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Port:            "8080",
		Env:             "development",
		StorageBackend:  "file",
		DataDir:         "data",
		SessionTimeout:  2 * time.Hour,
		CookieMaxAge:    2 * time.Hour,
		CleanupInterval: 10 * time.Minute,
		TimerInterval:   time.Second,
		RateLimitRPS:    5,
		RateLimitBurst:  10,
	}
}

// Load builds the configuration. path may be empty, in which case
// LEXICAL_CONFIG is consulted; with neither set no file is read.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn("Failed to load .env: %v", err)
	}

	cfg := New()
	if path == "" {
		path = os.Getenv("LEXICAL_CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		logging.Info("Loaded configuration from %s", path)
	}
	cfg.ApplyEnv()
	cfg.resetInvalid()
	return cfg, nil
}

// resetInvalid puts non-positive intervals and limits back to their defaults.
func (c *Config) resetInvalid() {
	def := New()
	durations := []struct {
		name string
		val  *time.Duration
		def  time.Duration
	}{
		{"session_timeout", &c.SessionTimeout, def.SessionTimeout},
		{"cookie_max_age", &c.CookieMaxAge, def.CookieMaxAge},
		{"cleanup_interval", &c.CleanupInterval, def.CleanupInterval},
		{"timer_interval", &c.TimerInterval, def.TimerInterval},
	}
	for _, d := range durations {
		if *d.val <= 0 {
			logging.Warn("Invalid %s %v, using default %v", d.name, *d.val, d.def)
			*d.val = d.def
		}
	}
	if c.RateLimitRPS <= 0 {
		logging.Warn("Invalid rate_limit_rps %d, using default %d", c.RateLimitRPS, def.RateLimitRPS)
		c.RateLimitRPS = def.RateLimitRPS
	}
	if c.RateLimitBurst <= 0 {
		logging.Warn("Invalid rate_limit_burst %d, using default %d", c.RateLimitBurst, def.RateLimitBurst)
		c.RateLimitBurst = def.RateLimitBurst
	}
}

// LoadFile reads a TOML file over the current values.
func (c *Config) LoadFile(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// ApplyEnv overrides values from environment variables.
func (c *Config) ApplyEnv() {
	c.Port = getEnvString("PORT", c.Port)
	c.Env = getEnvString("ENV", c.Env)
	if os.Getenv("GIN_MODE") == "release" {
		c.Env = "production"
	}
	c.StorageBackend = getEnvString("STORAGE_BACKEND", c.StorageBackend)
	c.DataDir = getEnvString("DATA_DIR", c.DataDir)
	c.DatabaseURL = getEnvString("DATABASE_URL", c.DatabaseURL)
	c.SessionTimeout = getEnvDuration("SESSION_TIMEOUT", c.SessionTimeout)
	c.CookieMaxAge = getEnvDuration("COOKIE_MAX_AGE", c.CookieMaxAge)
	c.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", c.CleanupInterval)
	c.TimerInterval = getEnvDuration("TIMER_INTERVAL", c.TimerInterval)
	c.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvDuration reads a time.Duration from the environment or returns a fallback.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		logging.Warn("Invalid duration for %s: %v, using default %v", key, err, fallback)
		return fallback
	}
	return d
}

// getEnvInt reads an int from the environment or returns a fallback.
func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		logging.Warn("Invalid int for %s: %v, using default %d", key, err, fallback)
		return fallback
	}
	return i
}
