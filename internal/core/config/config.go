package config

import (
	"fmt"

	"github.com/suzukaplayer/resilience/internal/infra/probe"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Probe      probe.Config     `yaml:"probe"`
}

// ServerConfig holds the status/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ResilienceConfig mirrors the persisted settings surface of the resilience
// engine. Delay and timeout fields are seconds, matching the settings file
// format. Unknown fields in the file are ignored and missing fields keep
// their defaults.
type ResilienceConfig struct {
	Enabled bool `yaml:"enabled"`

	// Circuit breaker
	MaxConsecutiveFailures int     `yaml:"max_consecutive_failures"`
	CircuitBreakerTimeout  float64 `yaml:"circuit_breaker_timeout"`

	// Backoff
	InitialBackoffDelay float64 `yaml:"initial_backoff_delay"`
	BackoffMultiplier   float64 `yaml:"backoff_multiplier"`
	MaxBackoffDelay     float64 `yaml:"max_backoff_delay"`

	// Retry limits per error kind
	MaxRetriesNetwork       int `yaml:"max_retries_network"`
	MaxRetriesSystem        int `yaml:"max_retries_system"`
	MaxRetriesAuth          int `yaml:"max_retries_auth"`
	MaxRetriesMediaNotFound int `yaml:"max_retries_media_not_found"`

	// Diagnostics
	ErrorHistoryLimit  int     `yaml:"error_history_limit"`
	StatusRecentWindow float64 `yaml:"status_recent_window"`
}

// Default returns the stock configuration. Load unmarshals user settings on
// top of it, so absent fields silently keep these values.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 8080},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Resilience: DefaultResilience(),
		Probe:      probe.DefaultConfig(),
	}
}

// DefaultResilience returns the stock engine settings.
func DefaultResilience() ResilienceConfig {
	return ResilienceConfig{
		Enabled:                 true,
		MaxConsecutiveFailures:  3,
		CircuitBreakerTimeout:   60,
		InitialBackoffDelay:     1.0,
		BackoffMultiplier:       2.0,
		MaxBackoffDelay:         30.0,
		MaxRetriesNetwork:       3,
		MaxRetriesSystem:        2,
		MaxRetriesAuth:          0,
		MaxRetriesMediaNotFound: 0,
		ErrorHistoryLimit:       200,
		StatusRecentWindow:      300,
	}
}

// Validate rejects configurations the engine cannot run with. Called by Load
// and by the engine constructor for configs built in code.
func (c ResilienceConfig) Validate() error {
	if c.MaxConsecutiveFailures < 1 {
		return fmt.Errorf("max_consecutive_failures must be at least 1, got %d", c.MaxConsecutiveFailures)
	}
	if c.CircuitBreakerTimeout <= 0 {
		return fmt.Errorf("circuit_breaker_timeout must be positive, got %v", c.CircuitBreakerTimeout)
	}
	if c.InitialBackoffDelay < 0 {
		return fmt.Errorf("initial_backoff_delay must not be negative, got %v", c.InitialBackoffDelay)
	}
	if c.BackoffMultiplier <= 0 {
		return fmt.Errorf("backoff_multiplier must be positive, got %v", c.BackoffMultiplier)
	}
	if c.MaxBackoffDelay < c.InitialBackoffDelay {
		return fmt.Errorf("max_backoff_delay %v is below initial_backoff_delay %v", c.MaxBackoffDelay, c.InitialBackoffDelay)
	}
	if c.MaxRetriesNetwork < 0 || c.MaxRetriesSystem < 0 || c.MaxRetriesAuth < 0 || c.MaxRetriesMediaNotFound < 0 {
		return fmt.Errorf("retry limits must not be negative")
	}
	if c.ErrorHistoryLimit < 1 {
		return fmt.Errorf("error_history_limit must be at least 1, got %d", c.ErrorHistoryLimit)
	}
	if c.StatusRecentWindow < 0 {
		return fmt.Errorf("status_recent_window must not be negative, got %v", c.StatusRecentWindow)
	}
	return nil
}
