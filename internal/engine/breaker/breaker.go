// Package breaker implements the cross-item circuit breaker that pauses
// automatic playlist advance after too many consecutive failures.
package breaker

import "time"

// Breaker tracks the consecutive-failure streak across all playlist items.
// It opens at a configured threshold and closes only on an explicit Reset or
// when its timeout is observed to have expired. There is no half-open state.
//
// A Breaker is not safe for concurrent use; the coordinator serializes all
// access behind its own lock.
type Breaker struct {
	threshold int
	timeout   time.Duration

	failures int
	open     bool
	openedAt time.Time
}

// New creates a closed breaker. It opens once failures reach threshold and
// stays open for timeout unless reset earlier.
func New(threshold int, timeout time.Duration) *Breaker {
	return &Breaker{threshold: threshold, timeout: timeout}
}

// RecordFailure increments the streak and reports whether this failure opened
// the breaker. An expired timeout is observed first, so a failure arriving
// after expiry with the streak still at or above the threshold re-opens the
// breaker with a fresh timestamp.
func (b *Breaker) RecordFailure(now time.Time) bool {
	b.expire(now)

	b.failures++
	if b.failures >= b.threshold && !b.open {
		b.open = true
		b.openedAt = now
		return true
	}
	return false
}

// RecordSuccess resets the streak to zero. It does not close an open breaker:
// one incidental success during the pause window must not cut the pause short.
func (b *Breaker) RecordSuccess() {
	b.failures = 0
}

// IsActive reports whether the breaker is open and how long until it would
// close on its own. Timeout expiry is evaluated lazily here.
func (b *Breaker) IsActive(now time.Time) (bool, time.Duration) {
	b.expire(now)

	if !b.open {
		return false, 0
	}
	return true, b.openedAt.Add(b.timeout).Sub(now)
}

// Reset force-closes the breaker and clears the streak. This is the manual
// user override.
func (b *Breaker) Reset() {
	b.open = false
	b.failures = 0
}

// Failures returns the current consecutive-failure streak.
func (b *Breaker) Failures() int {
	return b.failures
}

// expire closes the breaker once its timeout has elapsed. The streak is kept:
// the pause expiring is not evidence that playback recovered.
func (b *Breaker) expire(now time.Time) {
	if b.open && !now.Before(b.openedAt.Add(b.timeout)) {
		b.open = false
	}
}
