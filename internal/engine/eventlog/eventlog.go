// Package eventlog keeps a bounded chronological record of playback failures
// for diagnostics and status display.
package eventlog

import (
	"time"

	"github.com/suzukaplayer/resilience/internal/core/domain"
)

// DefaultCapacity bounds the log when no explicit capacity is configured.
const DefaultCapacity = 200

// Log is a FIFO-bounded sequence of error events, oldest first. It is not
// safe for concurrent use; the coordinator serializes access.
type Log struct {
	capacity int
	events   []domain.ErrorEvent
}

// New creates a log holding at most capacity events. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		events:   make([]domain.ErrorEvent, 0, capacity),
	}
}

// Append adds an event, evicting the oldest entry once the log is full.
func (l *Log) Append(ev domain.ErrorEvent) {
	l.events = append(l.events, ev)
	if len(l.events) > l.capacity {
		l.events = l.events[1:]
	}
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	return len(l.events)
}

// Recent returns up to n of the newest events in chronological order.
func (l *Log) Recent(n int) []domain.ErrorEvent {
	if n > len(l.events) {
		n = len(l.events)
	}
	out := make([]domain.ErrorEvent, n)
	copy(out, l.events[len(l.events)-n:])
	return out
}

// Summary aggregates the events newer than now-window.
type Summary struct {
	Total  int                      `json:"total"`
	ByKind map[domain.ErrorKind]int `json:"by_kind"`
}

// Summarize counts events within the window, grouped by kind.
func (l *Log) Summarize(now time.Time, window time.Duration) Summary {
	cutoff := now.Add(-window)
	s := Summary{ByKind: make(map[domain.ErrorKind]int)}

	for _, ev := range l.events {
		if ev.Timestamp.After(cutoff) {
			s.Total++
			s.ByKind[ev.Kind]++
		}
	}
	return s
}

// Prune drops events older than the cutoff. Eviction by capacity usually
// makes this unnecessary; it exists for long idle sessions.
func (l *Log) Prune(cutoff time.Time) {
	kept := l.events[:0]
	for _, ev := range l.events {
		if ev.Timestamp.After(cutoff) {
			kept = append(kept, ev)
		}
	}
	l.events = kept
}
