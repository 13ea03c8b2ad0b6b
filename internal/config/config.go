// Package config defines service configuration and how it is loaded.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config contains process configuration.
type Config struct {
	// Env is "development" or "production".
	Env string `koanf:"env"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Timezone decides which calendar day "today" is.
	Timezone string `koanf:"timezone"`

	// MaxMonthsAhead bounds forward month navigation and date taps on the schedule. At least 1.
	MaxMonthsAhead int `koanf:"max_months_ahead"`

	// CSRFKey is 64 hex characters. Required in production.
	CSRFKey string `koanf:"csrf_key"`

	ResendKey string `koanf:"resend_key"`
	EmailFrom string `koanf:"email_from"`
	ReplyTo   string `koanf:"reply_to"`

	// CoachEmail and CoachPassword seed the first account on an empty database.
	CoachEmail    string `koanf:"coach_email"`
	CoachPassword string `koanf:"coach_password"`

	AnalysisDelayMS       int `koanf:"analysis_delay_ms"`
	AnalysisTimeoutMS     int `koanf:"analysis_timeout_ms"`
	AnalysisStaleAfterMin int `koanf:"analysis_stale_after_min"`

	// RateLimitPerSecond is the sustained per-IP request rate; RateLimitBurst the bucket size.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
	RateLimitBurst     int     `koanf:"rate_limit_burst"`

	// CORSOrigins lists allowed browser origins; empty means DefaultCORSOrigins.
	CORSOrigins []string `koanf:"cors_origins"`

	// SeedSamples loads the sample roster and sessions into an empty database.
	SeedSamples bool `koanf:"seed_samples"`

	SlowQueryMS   int `koanf:"slow_query_ms"`
	SlowRequestMS int `koanf:"slow_request_ms"`
}

// DefaultCORSOrigins are the local Expo dev server origins.
var DefaultCORSOrigins = []string{"http://localhost:8081", "http://localhost:19006"}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Env:                   EnvDevelopment,
		Addr:                  ":8080",
		DBPath:                "courtside.db",
		LogLevel:              "info",
		Timezone:              "Local",
		MaxMonthsAhead:        3,
		EmailFrom:             "Courtside <noreply@courtside.app>",
		CoachEmail:            "coach@courtside.app",
		AnalysisDelayMS:       2000,
		AnalysisTimeoutMS:     30000,
		AnalysisStaleAfterMin: 10,
		RateLimitPerSecond:    10,
		RateLimitBurst:        30,
		SeedSamples:           true,
		SlowQueryMS:           50,
		SlowRequestMS:         100,
	}
}

// IsProduction reports whether Env is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks the loaded values.
// POST: any error wraps ErrInvalidConfig
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("%w: env must be %q or %q", ErrInvalidConfig, EnvDevelopment, EnvProduction)
	}
	if c.MaxMonthsAhead < 1 {
		return fmt.Errorf("%w: max_months_ahead must be at least 1", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.AnalysisTimeoutMS <= 0 || c.AnalysisDelayMS < 0 || c.AnalysisStaleAfterMin <= 0 {
		return fmt.Errorf("%w: analysis timings must be positive", ErrInvalidConfig)
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	}
	if c.IsProduction() && c.CoachPassword == "" {
		return fmt.Errorf("%w: coach_password is required in production", ErrInvalidConfig)
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CSRFAuthKey decodes CSRFKey. Outside production an empty key yields a
// random one, which does not survive a restart.
func (c *Config) CSRFAuthKey() ([]byte, error) {
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("%w: csrf_key must be 64 hex characters", ErrInvalidConfig)
		}
		return key, nil
	}
	if c.IsProduction() {
		return nil, fmt.Errorf("%w: csrf_key is required in production", ErrInvalidConfig)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_random", "reason", "csrf_key not set")
	return key, nil
}

// AnalysisDelay is the mock analyzer's processing time.
func (c *Config) AnalysisDelay() time.Duration {
	return time.Duration(c.AnalysisDelayMS) * time.Millisecond
}

// AnalysisTimeout bounds one analyzer call.
func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.AnalysisTimeoutMS) * time.Millisecond
}

// AnalysisStaleAfter is how long an analysis may stay processing before the sweep fails it.
func (c *Config) AnalysisStaleAfter() time.Duration {
	return time.Duration(c.AnalysisStaleAfterMin) * time.Minute
}

// AllowedOrigins returns CORSOrigins, or DefaultCORSOrigins when none are set.
func (c *Config) AllowedOrigins() []string {
	if len(c.CORSOrigins) == 0 {
		return DefaultCORSOrigins
	}
	return c.CORSOrigins
}

// SlowQuery is the threshold above which queries log at WARN.
func (c *Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

// SlowRequest is the threshold above which requests log at WARN.
func (c *Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

// ParseLogLevel maps a level name to slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
