// Package engine implements the playback resilience coordinator: the single
// entry point that turns reported playback failures into retry, skip, or
// pause decisions.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suzukaplayer/resilience/internal/core/config"
	"github.com/suzukaplayer/resilience/internal/core/domain"
	"github.com/suzukaplayer/resilience/internal/engine/breaker"
	"github.com/suzukaplayer/resilience/internal/engine/classify"
	"github.com/suzukaplayer/resilience/internal/engine/eventlog"
	"github.com/suzukaplayer/resilience/internal/engine/metrics"
	"github.com/suzukaplayer/resilience/internal/engine/policy"
)

// summaryWindow bounds the per-kind error counts in Summary.
const summaryWindow = time.Hour

// summaryRecentEvents bounds the event tail included in Summary.
const summaryRecentEvents = 10

// itemState is the retry bookkeeping for one playlist index. Attempts counts
// consecutive failures of the same kind; a kind change starts over at 1.
type itemState struct {
	kind     domain.ErrorKind
	attempts int
}

// Coordinator owns all resilience state for one playback session. Every
// public method takes the single internal lock; no method blocks on I/O or
// suspends, and no timers are held here. Scheduled retries belong to the
// caller.
type Coordinator struct {
	mu sync.Mutex

	enabled      bool
	recentWindow time.Duration

	classifier *classify.Classifier
	policies   *policy.Table
	breaker    *breaker.Breaker
	log        *eventlog.Log

	items       map[int]*itemState
	lastFailure time.Time

	now func() time.Time
}

// New builds a coordinator from validated settings.
func New(cfg config.ResilienceConfig) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("resilience config: %w", err)
	}

	base := time.Duration(cfg.InitialBackoffDelay * float64(time.Second))
	max := time.Duration(cfg.MaxBackoffDelay * float64(time.Second))
	table, err := policy.NewTable(map[domain.ErrorKind]policy.RetryPolicy{
		domain.KindNetwork:        {MaxRetries: cfg.MaxRetriesNetwork, BaseDelay: base, Multiplier: cfg.BackoffMultiplier, MaxDelay: max},
		domain.KindSystem:         {MaxRetries: cfg.MaxRetriesSystem, BaseDelay: base, Multiplier: cfg.BackoffMultiplier, MaxDelay: max},
		domain.KindAuthentication: {MaxRetries: cfg.MaxRetriesAuth, BaseDelay: base, Multiplier: cfg.BackoffMultiplier, MaxDelay: max},
		domain.KindMediaNotFound:  {MaxRetries: cfg.MaxRetriesMediaNotFound, BaseDelay: base, Multiplier: cfg.BackoffMultiplier, MaxDelay: max},
		domain.KindUnknown:        {MaxRetries: 1, BaseDelay: base, Multiplier: cfg.BackoffMultiplier, MaxDelay: max},
	})
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		enabled:      cfg.Enabled,
		recentWindow: time.Duration(cfg.StatusRecentWindow * float64(time.Second)),
		classifier:   classify.New(),
		policies:     table,
		breaker: breaker.New(
			cfg.MaxConsecutiveFailures,
			time.Duration(cfg.CircuitBreakerTimeout*float64(time.Second)),
		),
		log:   eventlog.New(cfg.ErrorHistoryLimit),
		items: make(map[int]*itemState),
		now:   time.Now,
	}, nil
}

// RecordError reports a failed playback attempt and returns the decision for
// the caller: retry after a delay, skip the item, or pause for intervention
// because the breaker is open.
func (c *Coordinator) RecordError(index int, url, message string) domain.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kind := c.classifier.Classify(message, url)

	st := c.items[index]
	if st == nil || st.kind != kind {
		// First failure for this index, or the failure mode changed;
		// limits and backoff are kind-specific, so start over.
		st = &itemState{kind: kind}
		c.items[index] = st
	}
	prior := st.attempts
	st.attempts = prior + 1
	c.lastFailure = now

	c.log.Append(domain.ErrorEvent{
		ID:        uuid.New().String(),
		Timestamp: now,
		Index:     index,
		URL:       url,
		Kind:      kind,
		Message:   message,
		Attempt:   st.attempts,
	})
	metrics.ErrorsTotal.WithLabelValues(string(kind)).Inc()
	metrics.EventLogSize.Set(float64(c.log.Len()))

	if opened := c.breaker.RecordFailure(now); opened {
		metrics.BreakerTrips.Inc()
		slog.Warn("Circuit breaker opened, pausing auto-advance",
			"consecutive_failures", c.breaker.Failures())
	}
	c.updateBreakerGauge(now)

	decision := c.decide(now, kind, prior)
	metrics.DecisionsTotal.WithLabelValues(string(decision.Action)).Inc()

	slog.Debug("Playback failure recorded",
		"index", index,
		"kind", kind,
		"attempt", st.attempts,
		"action", decision.Action,
		"delay", decision.Delay)

	return decision
}

// decide applies the policy table and breaker state. prior is the attempt
// count before the current failure; the delay for attempt n uses the backoff
// exponent n-1, so the first retry waits the base delay.
func (c *Coordinator) decide(now time.Time, kind domain.ErrorKind, prior int) domain.Decision {
	if !c.enabled {
		return domain.Decision{Action: domain.ActionSkip, Kind: kind}
	}

	if active, remaining := c.breaker.IsActive(now); active {
		return domain.Decision{Action: domain.ActionRequireIntervention, Kind: kind, Delay: remaining}
	}

	if c.policies.ShouldRetry(kind, prior) {
		return domain.Decision{Action: domain.ActionRetry, Kind: kind, Delay: c.policies.DelayFor(kind, prior+1)}
	}

	return domain.Decision{Action: domain.ActionSkip, Kind: kind}
}

// RecordSuccess reports a successful playback attempt. It clears the item's
// retry state and resets the breaker streak. An already-open breaker stays
// open until its timeout expires or Reset is called.
func (c *Coordinator) RecordSuccess(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, index)
	c.breaker.RecordSuccess()
	c.updateBreakerGauge(c.now())
}

// Status derives the UI-facing health level from current state.
func (c *Coordinator) Status() domain.StatusView {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if active, remaining := c.breaker.IsActive(now); active {
		c.updateBreakerGauge(now)
		return domain.StatusView{
			Level:            domain.StatusCritical,
			Message:          fmt.Sprintf("auto-advance paused after %d consecutive failures", c.breaker.Failures()),
			RemainingSeconds: remaining.Seconds(),
		}
	}
	c.updateBreakerGauge(now)

	for _, st := range c.items {
		if st.attempts >= 2 {
			return domain.StatusView{
				Level:   domain.StatusWarning,
				Message: fmt.Sprintf("repeated %s failures on current item", st.kind),
			}
		}
	}

	if !c.lastFailure.IsZero() && now.Sub(c.lastFailure) <= c.recentWindow {
		return domain.StatusView{
			Level:   domain.StatusInfo,
			Message: "recent playback failure",
		}
	}

	return domain.StatusView{Level: domain.StatusNone}
}

// Reset is the manual breaker override. Per-item histories are kept for
// diagnostics until overwritten or evicted.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.breaker.Reset()
	metrics.BreakerOpen.Set(0)
	slog.Info("Circuit breaker manually reset")
}

// Summary is a diagnostic snapshot for the status server.
type Summary struct {
	TotalErrors         int                      `json:"total_errors"`
	ByKind              map[domain.ErrorKind]int `json:"by_kind"`
	ConsecutiveFailures int                      `json:"consecutive_failures"`
	BreakerActive       bool                     `json:"breaker_active"`
	BreakerRemaining    float64                  `json:"breaker_remaining_seconds"`
	RecentEvents        []domain.ErrorEvent      `json:"recent_errors"`
}

// Summarize reports error totals for the last hour plus breaker state and the
// newest events.
func (c *Coordinator) Summarize() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	active, remaining := c.breaker.IsActive(now)
	counts := c.log.Summarize(now, summaryWindow)

	return Summary{
		TotalErrors:         counts.Total,
		ByKind:              counts.ByKind,
		ConsecutiveFailures: c.breaker.Failures(),
		BreakerActive:       active,
		BreakerRemaining:    remaining.Seconds(),
		RecentEvents:        c.log.Recent(summaryRecentEvents),
	}
}

func (c *Coordinator) updateBreakerGauge(now time.Time) {
	if active, _ := c.breaker.IsActive(now); active {
		metrics.BreakerOpen.Set(1)
	} else {
		metrics.BreakerOpen.Set(0)
	}
}
