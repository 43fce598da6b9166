// Package probe provides a throttled network connectivity checker. The
// playback controller consults it before attempting an online URL; the
// resilience engine itself never performs I/O.
package probe

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/suzukaplayer/resilience/internal/engine/metrics"
)

// Config holds connectivity probe settings. CheckInterval is in seconds,
// matching the settings file format.
type Config struct {
	Enabled       bool     `yaml:"enabled"`
	CheckInterval float64  `yaml:"check_interval"`
	Hosts         []string `yaml:"hosts"`
}

// DefaultConfig returns the stock probe settings: at most one DNS check per
// 30 seconds against well-known hosts.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		CheckInterval: 30,
		Hosts:         []string{"google.com", "cloudflare.com"},
	}
}

// lookupFunc resolves a hostname. Swappable in tests.
type lookupFunc func(ctx context.Context, host string) error

// Checker reports whether the network looks reachable. Checks are throttled:
// between checks the last observed state is returned.
type Checker struct {
	mu        sync.Mutex
	lookup    lookupFunc
	hosts     []string
	interval  time.Duration
	lastCheck time.Time
	offline   bool
	now       func() time.Time
}

// New creates a checker from cfg, filling in defaults for missing fields.
func New(cfg Config) *Checker {
	hosts := cfg.Hosts
	if len(hosts) == 0 {
		hosts = DefaultConfig().Hosts
	}
	interval := time.Duration(cfg.CheckInterval * float64(time.Second))
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Checker{
		lookup: func(ctx context.Context, host string) error {
			_, err := net.DefaultResolver.LookupHost(ctx, host)
			return err
		},
		hosts:    hosts,
		interval: interval,
		now:      time.Now,
	}
}

// Online reports current connectivity. A fresh check runs at most once per
// interval; any one host resolving counts as online.
func (c *Checker) Online(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastCheck) < c.interval {
		return !c.offline
	}
	c.lastCheck = now

	for _, host := range c.hosts {
		if err := c.lookup(ctx, host); err == nil {
			c.offline = false
			metrics.ProbeChecks.WithLabelValues("online").Inc()
			return true
		}
	}

	c.offline = true
	metrics.ProbeChecks.WithLabelValues("offline").Inc()
	return false
}

// Offline reports the last observed state without triggering a check.
func (c *Checker) Offline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offline
}
