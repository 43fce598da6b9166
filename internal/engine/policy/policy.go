// Package policy holds per-kind retry limits and backoff arithmetic.
package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/suzukaplayer/resilience/internal/core/domain"
)

// RetryPolicy holds the retry limit and backoff parameters for one error kind.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Multiplier float64
	MaxDelay   time.Duration
}

// Table maps each error kind to its retry policy. A table is read-only after
// construction and is replaced as a whole when configuration changes.
type Table struct {
	policies map[domain.ErrorKind]RetryPolicy
	fallback RetryPolicy
}

// DefaultTable returns the stock policies: transient kinds retry with
// exponential backoff, permanent kinds never retry, unknown errors get a
// single conservative retry.
func DefaultTable() *Table {
	t, err := NewTable(map[domain.ErrorKind]RetryPolicy{
		domain.KindNetwork:        {MaxRetries: 3, BaseDelay: time.Second, Multiplier: 2.0, MaxDelay: 30 * time.Second},
		domain.KindSystem:         {MaxRetries: 2, BaseDelay: time.Second, Multiplier: 2.0, MaxDelay: 30 * time.Second},
		domain.KindMediaNotFound:  {MaxRetries: 0, BaseDelay: time.Second, Multiplier: 2.0, MaxDelay: 30 * time.Second},
		domain.KindAuthentication: {MaxRetries: 0, BaseDelay: time.Second, Multiplier: 2.0, MaxDelay: 30 * time.Second},
		domain.KindUnknown:        {MaxRetries: 1, BaseDelay: time.Second, Multiplier: 2.0, MaxDelay: 30 * time.Second},
	})
	if err != nil {
		panic(err) // defaults are static and always valid
	}
	return t
}

// NewTable validates the given policies and builds a table. Kinds missing
// from the map fall back to the unknown-kind policy.
func NewTable(policies map[domain.ErrorKind]RetryPolicy) (*Table, error) {
	for kind, p := range policies {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("policy for %s: %w", kind, err)
		}
	}

	fallback, ok := policies[domain.KindUnknown]
	if !ok {
		fallback = RetryPolicy{MaxRetries: 1, BaseDelay: time.Second, Multiplier: 2.0, MaxDelay: 30 * time.Second}
	}

	copied := make(map[domain.ErrorKind]RetryPolicy, len(policies))
	for kind, p := range policies {
		copied[kind] = p
	}

	return &Table{policies: copied, fallback: fallback}, nil
}

func validate(p RetryPolicy) error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", p.MaxRetries)
	}
	if p.BaseDelay < 0 {
		return fmt.Errorf("base delay must not be negative, got %v", p.BaseDelay)
	}
	if p.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive, got %v", p.Multiplier)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("max delay %v is below base delay %v", p.MaxDelay, p.BaseDelay)
	}
	return nil
}

// Policy returns the policy for a kind, falling back to the unknown-kind
// policy for kinds missing from the table.
func (t *Table) Policy(kind domain.ErrorKind) RetryPolicy {
	if p, ok := t.policies[kind]; ok {
		return p
	}
	return t.fallback
}

// ShouldRetry reports whether another retry is allowed for a kind given how
// many attempts have already failed.
func (t *Table) ShouldRetry(kind domain.ErrorKind, attempts int) bool {
	return attempts < t.Policy(kind).MaxRetries
}

// DelayFor computes the backoff delay for the given 1-indexed attempt:
// min(base * multiplier^(attempt-1), max).
func (t *Table) DelayFor(kind domain.ErrorKind, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	p := t.Policy(kind)

	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}
